package services_test

import (
	"database/sql"
	"errors"
	"testing"

	"bidmarket/internal/apperr"
	"bidmarket/internal/repos"
	"bidmarket/internal/services"
)

func TestCatalog_VisibilityGate(t *testing.T) {
	db := openTestDB(t)
	alice := principalFor(t, db, "u-alice")
	bob := principalFor(t, db, "u-bob")

	bidRepo := repos.NewBidRepo(db)
	transferRepo := repos.NewTransferRepo(db)
	prodRepo := repos.NewProductRepo(db)
	catalog := services.NewCatalogService(repos.NewCollectionRepo(db), prodRepo, bidRepo, transferRepo)
	bids := services.NewBidService(bidRepo, prodRepo)

	if _, err := bids.Place(bob, "prod-nebula", 100, ""); err != nil {
		t.Fatal(err)
	}

	// non-owner cannot toggle
	if _, err := catalog.SetVisibility(bob, "prod-nebula", "false"); !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("want PERMISSION_DENIED, got %v", err)
	}

	// unrecognized value: no-op, no purge, no error
	p, err := catalog.SetVisibility(alice, "prod-nebula", "maybe")
	if err != nil || p != nil {
		t.Fatalf("want permissive no-op, got p=%v err=%v", p, err)
	}
	if n, _ := bidRepo.CountByProduct("prod-nebula"); n != 1 {
		t.Fatalf("no-op should not purge bids, got %d", n)
	}
	got, _ := prodRepo.Get("prod-nebula")
	if !got.Visible {
		t.Fatal("no-op should not change visibility")
	}

	// owner pulls the listing: hidden + bids and transfer purged
	p, err = catalog.SetVisibility(alice, "prod-nebula", "false")
	if err != nil {
		t.Fatal(err)
	}
	if p.Visible {
		t.Fatal("product should be hidden")
	}
	if n, _ := bidRepo.CountByProduct("prod-nebula"); n != 0 {
		t.Fatalf("pull should purge bids, got %d", n)
	}
	if _, err := transferRepo.ByProduct("prod-nebula"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatal("pull should remove any transfer")
	}

	// re-show is a bare flag flip
	p, err = catalog.SetVisibility(alice, "prod-nebula", "true")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Visible {
		t.Fatal("product should be visible again")
	}
}

func TestCatalog_CollectionDeleteGuard(t *testing.T) {
	db := openTestDB(t)
	admin := principalFor(t, db, "u-admin")
	bob := principalFor(t, db, "u-bob")

	catalog := services.NewCatalogService(
		repos.NewCollectionRepo(db), repos.NewProductRepo(db),
		repos.NewBidRepo(db), repos.NewTransferRepo(db))

	// seeded collection still holds products
	if err := catalog.DeleteCollection(admin, "digital-art"); !apperr.Is(err, apperr.CodeConflict) {
		t.Fatalf("want CONFLICT deleting non-empty collection, got %v", err)
	}

	// staff only
	col, err := catalog.CreateCollection(admin, "Ephemera")
	if err != nil {
		t.Fatal(err)
	}
	if err := catalog.DeleteCollection(bob, col.ID); !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("want PERMISSION_DENIED, got %v", err)
	}
	if err := catalog.DeleteCollection(admin, col.ID); err != nil {
		t.Fatal(err)
	}
}

func TestCatalog_ProductLifecycle(t *testing.T) {
	db := openTestDB(t)
	bob := principalFor(t, db, "u-bob")
	carol := principalFor(t, db, "u-carol")

	catalog := services.NewCatalogService(
		repos.NewCollectionRepo(db), repos.NewProductRepo(db),
		repos.NewBidRepo(db), repos.NewTransferRepo(db))

	p, err := catalog.CreateProduct(bob, "music", "B-side acetate", "one of one",
		"ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12", 75)
	if err != nil {
		t.Fatal(err)
	}
	if p.OwnerID != bob.CustomerID || !p.Visible {
		t.Fatalf("bad product: %+v", p)
	}

	if _, err := catalog.UpdateProduct(carol, p.ID, "stolen", "", 75); !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("want PERMISSION_DENIED, got %v", err)
	}
	if _, err := catalog.UpdateProduct(bob, p.ID, "B-side acetate (mint)", "one of one", 90); err != nil {
		t.Fatal(err)
	}
	if err := catalog.DeleteProduct(bob, p.ID); err != nil {
		t.Fatal(err)
	}
}
