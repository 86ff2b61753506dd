package domain

// Principal is the authenticated identity passed explicitly into every
// workflow operation instead of being read from ambient request state.
type Principal struct {
	UserID     string
	CustomerID string
	IsStaff    bool
	PublicKey  string // base64 ed25519 key registered on the account
}
