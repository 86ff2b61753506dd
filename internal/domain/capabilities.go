package domain

// Capability checks are plain functions composed per operation.

func IsItemOwner(p Principal, prod Product) bool {
	return p.CustomerID != "" && p.CustomerID == prod.OwnerID
}

func IsBuyer(p Principal, t Transfer) bool {
	return p.CustomerID != "" && p.CustomerID == t.BuyerID
}

func IsBidder(p Principal, b Bid) bool {
	return p.CustomerID != "" && p.CustomerID == b.CustomerID
}

func IsParty(p Principal, t Transfer) bool {
	return IsBuyer(p, t) || p.CustomerID == t.SellerID
}
