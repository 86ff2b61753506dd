package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"bidmarket/internal/apperr"
	"bidmarket/internal/domain"
	"bidmarket/internal/repos"
	"bidmarket/internal/services"
	"bidmarket/internal/verify"
)

// openTestDB uses the real schema and seed data: alice owns prod-nebula and
// prod-coin, bob owns prod-track, carol owns nothing.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func principalFor(t *testing.T, db *sqlx.DB, userID string) domain.Principal {
	t.Helper()
	auth := &services.AuthService{Users: repos.NewUserRepo(db), Custs: repos.NewCustomerRepo(db)}
	u, err := repos.NewUserRepo(db).ByID(userID)
	if err != nil {
		t.Fatalf("seed user %s missing: %v", userID, err)
	}
	p, err := auth.PrincipalFor(u)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

type stubLedger struct {
	ownerHash string
	found     bool
	err       error
	sigOK     bool
}

func (s *stubLedger) OwnerOf(ctx context.Context, productHash string) (string, bool, error) {
	return s.ownerHash, s.found, s.err
}

func (s *stubLedger) VerifySignature(ctx context.Context, challenge, signature, publicKey string) (bool, error) {
	return s.sigOK, s.err
}

func newSvcs(db *sqlx.DB, ledger verify.Ledger) (*services.BidService, *services.TransferService, *repos.BidRepo, *repos.TransferRepo, *repos.ProductRepo) {
	bidRepo := repos.NewBidRepo(db)
	transferRepo := repos.NewTransferRepo(db)
	prodRepo := repos.NewProductRepo(db)
	return services.NewBidService(bidRepo, prodRepo),
		services.NewTransferService(transferRepo, bidRepo, prodRepo, ledger),
		bidRepo, transferRepo, prodRepo
}

func TestTransferFlow_ApproveConfirm(t *testing.T) {
	db := openTestDB(t)
	alice := principalFor(t, db, "u-alice")
	bob := principalFor(t, db, "u-bob")
	carol := principalFor(t, db, "u-carol")

	ledger := &stubLedger{ownerHash: verify.KeyHash(bob.PublicKey), found: true}
	bids, transfers, bidRepo, transferRepo, prodRepo := newSvcs(db, ledger)

	// Bob bids on Alice's product
	bid, err := bids.Place(bob, "prod-nebula", 100, "take my money")
	if err != nil {
		t.Fatal(err)
	}

	// Carol, not the owner, cannot approve
	if _, err := transfers.Approve(carol, "prod-nebula", bid.ID); !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("want PERMISSION_DENIED for non-owner approve, got %v", err)
	}

	// Alice approves: transfer created, product hidden, bid approved
	tr, err := transfers.Approve(alice, "prod-nebula", bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if tr.BuyerID != bob.CustomerID || tr.SellerID != alice.CustomerID || tr.Completed {
		t.Fatalf("bad transfer: %+v", tr)
	}
	p, _ := prodRepo.Get("prod-nebula")
	if p.Visible {
		t.Fatal("product should be hidden after approval")
	}
	b, _ := bidRepo.Get(bid.ID)
	if !b.Approved {
		t.Fatal("bid should be approved")
	}

	// Hidden product rejects new bids
	if _, err := bids.Place(carol, "prod-nebula", 200, ""); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("want INVALID_ARGUMENT for hidden product, got %v", err)
	}

	// Approved bid cannot be withdrawn, by anyone
	if err := bids.Withdraw(bob, bid.ID); !apperr.Is(err, apperr.CodeConflict) {
		t.Fatalf("want CONFLICT withdrawing approved bid, got %v", err)
	}

	// At most one pending transfer per product
	if _, err := transfers.Approve(alice, "prod-nebula", bid.ID); !apperr.Is(err, apperr.CodeConflict) {
		t.Fatalf("want CONFLICT for second approval, got %v", err)
	}

	// Only the buyer may confirm
	if _, err := transfers.Confirm(context.Background(), carol, tr.ID); !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("want PERMISSION_DENIED for non-buyer confirm, got %v", err)
	}

	// Bob confirms: ownership moves, transfer and all bids are gone
	got, err := transfers.Confirm(context.Background(), bob, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.OwnerID != bob.CustomerID {
		t.Fatalf("want owner %s, got %s", bob.CustomerID, got.OwnerID)
	}
	if _, err := transferRepo.Get(tr.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatal("transfer row should be deleted after completion")
	}
	if n, _ := bidRepo.CountByProduct("prod-nebula"); n != 0 {
		t.Fatalf("want 0 bids after completion, got %d", n)
	}
}

func TestTransferFlow_VerificationMismatchLeavesState(t *testing.T) {
	db := openTestDB(t)
	alice := principalFor(t, db, "u-alice")
	bob := principalFor(t, db, "u-bob")
	carol := principalFor(t, db, "u-carol")

	// Ledger attributes the hash to Carol, not Bob
	ledger := &stubLedger{ownerHash: verify.KeyHash(carol.PublicKey), found: true}
	bids, transfers, bidRepo, transferRepo, prodRepo := newSvcs(db, ledger)

	bid, err := bids.Place(bob, "prod-nebula", 100, "")
	if err != nil {
		t.Fatal(err)
	}
	tr, err := transfers.Approve(alice, "prod-nebula", bid.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := transfers.Confirm(context.Background(), bob, tr.ID); !apperr.Is(err, apperr.CodeVerificationFailed) {
		t.Fatalf("want VERIFICATION_FAILED, got %v", err)
	}

	// Nothing moved
	p, _ := prodRepo.Get("prod-nebula")
	if p.OwnerID != alice.CustomerID || p.Visible {
		t.Fatalf("state changed on failed verification: %+v", p)
	}
	if _, err := transferRepo.Get(tr.ID); err != nil {
		t.Fatal("transfer should still exist after failed verification")
	}
	if b, _ := bidRepo.Get(bid.ID); !b.Approved {
		t.Fatal("approved bid should persist after failed verification")
	}
}

func TestTransferFlow_LedgerUnavailable(t *testing.T) {
	db := openTestDB(t)
	alice := principalFor(t, db, "u-alice")
	bob := principalFor(t, db, "u-bob")

	ledger := &stubLedger{err: apperr.ErrVerifierDown(errors.New("connection refused"))}
	bids, transfers, _, _, _ := newSvcs(db, ledger)

	bid, err := bids.Place(bob, "prod-nebula", 100, "")
	if err != nil {
		t.Fatal(err)
	}
	tr, err := transfers.Approve(alice, "prod-nebula", bid.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Transport failure is UNAVAILABLE, never silent success
	if _, err := transfers.Confirm(context.Background(), bob, tr.ID); !apperr.Is(err, apperr.CodeUnavailable) {
		t.Fatalf("want UNAVAILABLE, got %v", err)
	}
}

func TestTransferFlow_ListForParties(t *testing.T) {
	db := openTestDB(t)
	alice := principalFor(t, db, "u-alice")
	bob := principalFor(t, db, "u-bob")
	carol := principalFor(t, db, "u-carol")

	ledger := &stubLedger{}
	bids, transfers, _, _, _ := newSvcs(db, ledger)

	bid, err := bids.Place(bob, "prod-nebula", 100, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := transfers.Approve(alice, "prod-nebula", bid.ID); err != nil {
		t.Fatal(err)
	}

	for _, p := range []domain.Principal{alice, bob} {
		ts, err := transfers.List(p)
		if err != nil {
			t.Fatal(err)
		}
		if len(ts) != 1 {
			t.Fatalf("want 1 transfer for %s, got %d", p.CustomerID, len(ts))
		}
	}
	ts, err := transfers.List(carol)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 0 {
		t.Fatalf("carol is not a party, got %d transfers", len(ts))
	}
}
