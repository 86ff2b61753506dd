package apperr

var (
	// Bid ledger
	ErrProductNotFound  = InvalidArg("no product with given id was found")
	ErrProductHidden    = InvalidArg("product is not accepting bids")
	ErrSelfBid          = InvalidArg("cannot bid on your own product")
	ErrBidNotFound      = NotFound("bid not found")
	ErrNotBidder        = Forbidden("only the bidder may withdraw this bid")
	ErrBidApproved      = Conflict("cannot delete approved bid")
	ErrBidWrongProduct  = InvalidArg("bid does not belong to this product")

	// Transfer workflow
	ErrNotItemOwner     = Forbidden("only the product owner may do this")
	ErrNotBuyer         = Forbidden("only the transfer buyer may confirm")
	ErrTransferNotFound = NotFound("transfer not found")
	ErrTransferExists   = Conflict("product already has a pending transfer")
	ErrNotAttributed    = Verification("ledger does not attribute this product to you")

	// Identity
	ErrBadCredentials = Unauthorized("invalid email or password")
	ErrBadSignature   = Unauthorized("signature verification failed")
	ErrNoChallenge    = Unauthorized("no outstanding challenge for this account")

	// Catalog
	ErrCollectionNotEmpty = Conflict("collection cannot be deleted because it includes products")
)

func ErrVerifierDown(cause error) error {
	return Wrap(CodeUnavailable, "verification service unavailable", cause)
}

func ErrTxFailed(cause error) error {
	return Wrap(CodeInternal, "transaction failed", cause)
}
