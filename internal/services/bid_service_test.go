package services_test

import (
	"testing"

	"bidmarket/internal/apperr"
	"bidmarket/internal/repos"
	"bidmarket/internal/services"
)

func TestBidService_PlaceRules(t *testing.T) {
	db := openTestDB(t)
	alice := principalFor(t, db, "u-alice")
	bob := principalFor(t, db, "u-bob")

	svc := services.NewBidService(repos.NewBidRepo(db), repos.NewProductRepo(db))

	// unknown product
	if _, err := svc.Place(bob, "prod-nope", 50, ""); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("want INVALID_ARGUMENT for unknown product, got %v", err)
	}
	// self-bid
	if _, err := svc.Place(alice, "prod-nebula", 50, ""); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("want INVALID_ARGUMENT for self-bid, got %v", err)
	}
	// price floor
	if _, err := svc.Place(bob, "prod-nebula", 0.5, ""); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("want INVALID_ARGUMENT for price below 1, got %v", err)
	}

	b, err := svc.Place(bob, "prod-nebula", 150, "fair offer")
	if err != nil {
		t.Fatal(err)
	}
	if b.Approved || b.CustomerID != bob.CustomerID || b.PlacedAt == "" {
		t.Fatalf("bad bid: %+v", b)
	}
}

func TestBidService_ListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	bob := principalFor(t, db, "u-bob")
	carol := principalFor(t, db, "u-carol")

	svc := services.NewBidService(repos.NewBidRepo(db), repos.NewProductRepo(db))

	first, err := svc.Place(bob, "prod-nebula", 100, "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Place(carol, "prod-nebula", 120, "")
	if err != nil {
		t.Fatal(err)
	}

	out, err := svc.List("prod-nebula")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 bids, got %d", len(out))
	}
	if out[0].ID != second.ID || out[1].ID != first.ID {
		t.Fatalf("want newest first, got %s then %s", out[0].ID, out[1].ID)
	}
}

func TestBidService_WithdrawRules(t *testing.T) {
	db := openTestDB(t)
	bob := principalFor(t, db, "u-bob")
	carol := principalFor(t, db, "u-carol")

	bidRepo := repos.NewBidRepo(db)
	svc := services.NewBidService(bidRepo, repos.NewProductRepo(db))

	b, err := svc.Place(bob, "prod-nebula", 100, "")
	if err != nil {
		t.Fatal(err)
	}

	// only the bidder may withdraw
	if err := svc.Withdraw(carol, b.ID); !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("want PERMISSION_DENIED, got %v", err)
	}
	if err := svc.Withdraw(bob, b.ID); err != nil {
		t.Fatal(err)
	}
	// already gone
	if err := svc.Withdraw(bob, b.ID); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}
