package services_test

import (
	"context"
	"testing"

	"bidmarket/internal/apperr"
	"bidmarket/internal/repos"
	"bidmarket/internal/services"
)

func TestAuthService_ChallengeFlow(t *testing.T) {
	db := openTestDB(t)
	userRepo := repos.NewUserRepo(db)
	ledger := &stubLedger{sigOK: true}
	auth := &services.AuthService{Users: userRepo, Custs: repos.NewCustomerRepo(db), Ledger: ledger}

	// no challenge issued yet
	if _, err := auth.ProveChallenge(context.Background(), "sid-1", "bob@bidmarket.test", "c2ln"); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("want UNAUTHENTICATED without challenge, got %v", err)
	}

	challenge, err := auth.IssueChallenge("bob@bidmarket.test")
	if err != nil {
		t.Fatal(err)
	}
	if challenge == "" {
		t.Fatal("empty challenge")
	}

	u, err := auth.ProveChallenge(context.Background(), "sid-1", "bob@bidmarket.test", "c2ln")
	if err != nil {
		t.Fatal(err)
	}
	if !u.Verified || u.Challenge != "" {
		t.Fatalf("challenge should be consumed and account verified: %+v", u)
	}
	// session bound
	su, err := auth.CurrentUser("sid-1")
	if err != nil || su.ID != u.ID {
		t.Fatalf("session not bound: %v", err)
	}
}

func TestAuthService_ChallengeBadSignature(t *testing.T) {
	db := openTestDB(t)
	ledger := &stubLedger{sigOK: false}
	auth := &services.AuthService{Users: repos.NewUserRepo(db), Custs: repos.NewCustomerRepo(db), Ledger: ledger}

	if _, err := auth.IssueChallenge("bob@bidmarket.test"); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ProveChallenge(context.Background(), "sid-1", "bob@bidmarket.test", "bm9wZQ"); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("want UNAUTHENTICATED for bad signature, got %v", err)
	}
	// challenge is not consumed on failure
	u, err := repos.NewUserRepo(db).ByEmail("bob@bidmarket.test")
	if err != nil {
		t.Fatal(err)
	}
	if u.Challenge == "" {
		t.Fatal("challenge should survive a failed proof")
	}
}

func TestAuthService_PasswordLogin(t *testing.T) {
	db := openTestDB(t)
	auth := &services.AuthService{Users: repos.NewUserRepo(db), Custs: repos.NewCustomerRepo(db)}

	if _, err := auth.Login("sid-2", "alice@bidmarket.test", "wrongpass!"); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("want UNAUTHENTICATED, got %v", err)
	}
	u, err := auth.Login("sid-2", "alice@bidmarket.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	p, err := auth.PrincipalFor(u)
	if err != nil {
		t.Fatal(err)
	}
	if p.CustomerID != "c-alice" || p.IsStaff {
		t.Fatalf("bad principal: %+v", p)
	}
}
