package services

import (
	"database/sql"
	"errors"

	"bidmarket/internal/apperr"
	"bidmarket/internal/domain"
	"bidmarket/internal/repos"
)

type CatalogService struct {
	Cols      *repos.CollectionRepo
	Prods     *repos.ProductRepo
	Bids      *repos.BidRepo
	Transfers *repos.TransferRepo
}

func NewCatalogService(cols *repos.CollectionRepo, prods *repos.ProductRepo, bids *repos.BidRepo, transfers *repos.TransferRepo) *CatalogService {
	return &CatalogService{Cols: cols, Prods: prods, Bids: bids, Transfers: transfers}
}

func (s *CatalogService) ListCollections() ([]domain.Collection, error) {
	return s.Cols.List()
}

func (s *CatalogService) CreateCollection(p domain.Principal, title string) (domain.Collection, error) {
	if !p.IsStaff {
		return domain.Collection{}, apperr.Forbidden("only staff may create collections")
	}
	id := newID()
	if err := s.Cols.Create(id, title); err != nil {
		return domain.Collection{}, apperr.ErrTxFailed(err)
	}
	return s.Cols.Get(id)
}

// DeleteCollection refuses while the collection still holds products.
func (s *CatalogService) DeleteCollection(p domain.Principal, id string) error {
	if !p.IsStaff {
		return apperr.Forbidden("only staff may delete collections")
	}
	n, err := s.Cols.ProductCount(id)
	if err != nil {
		return apperr.ErrTxFailed(err)
	}
	if n > 0 {
		return apperr.ErrCollectionNotEmpty
	}
	if err := s.Cols.Delete(id); err != nil {
		return apperr.ErrTxFailed(err)
	}
	return nil
}

func (s *CatalogService) ListProducts(page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	return s.Prods.ListVisible(pageSize, (page-1)*pageSize)
}

func (s *CatalogService) ListByCollection(colID string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	return s.Prods.ListByCollection(colID, pageSize, (page-1)*pageSize)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, apperr.ErrProductNotFound
		}
		return domain.Product{}, apperr.ErrTxFailed(err)
	}
	return p, nil
}

func (s *CatalogService) Search(q string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	return s.Prods.Search(q, pageSize, (page-1)*pageSize)
}

func (s *CatalogService) CreateProduct(p domain.Principal, collectionID, title, description, productHash string, price float64) (domain.Product, error) {
	if p.CustomerID == "" {
		return domain.Product{}, apperr.Forbidden("only customers may list products")
	}
	if _, err := s.Cols.Get(collectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, apperr.InvalidArg("no collection with given id was found")
		}
		return domain.Product{}, apperr.ErrTxFailed(err)
	}
	prod := domain.Product{
		ID:           newID(),
		CollectionID: collectionID,
		OwnerID:      p.CustomerID,
		Title:        title,
		Description:  description,
		Price:        price,
		ProductHash:  productHash,
		Visible:      true,
	}
	if err := s.Prods.Create(prod); err != nil {
		return domain.Product{}, apperr.ErrTxFailed(err)
	}
	return s.Prods.Get(prod.ID)
}

func (s *CatalogService) UpdateProduct(p domain.Principal, id, title, description string, price float64) (domain.Product, error) {
	prod, err := s.GetProduct(id)
	if err != nil {
		return domain.Product{}, err
	}
	if !domain.IsItemOwner(p, prod) && !p.IsStaff {
		return domain.Product{}, apperr.ErrNotItemOwner
	}
	if err := s.Prods.Update(id, title, description, price); err != nil {
		return domain.Product{}, apperr.ErrTxFailed(err)
	}
	return s.Prods.Get(id)
}

// DeleteProduct refuses while bids exist; the owner has to pull the listing
// through the visibility gate first.
func (s *CatalogService) DeleteProduct(p domain.Principal, id string) error {
	prod, err := s.GetProduct(id)
	if err != nil {
		return err
	}
	if !domain.IsItemOwner(p, prod) && !p.IsStaff {
		return apperr.ErrNotItemOwner
	}
	n, err := s.Bids.CountByProduct(id)
	if err != nil {
		return apperr.ErrTxFailed(err)
	}
	if n > 0 {
		return apperr.Conflict("product cannot be deleted because bids exist")
	}
	if err := s.Prods.Delete(id); err != nil {
		return apperr.ErrTxFailed(err)
	}
	return nil
}

// SetVisibility toggles whether a product accepts bids. Hiding a product this
// way means the owner pulled the listing, so outstanding bids and any pending
// transfer are discarded with it. A value other than "true"/"false" changes
// nothing and reports no error.
func (s *CatalogService) SetVisibility(p domain.Principal, productID, value string) (*domain.Product, error) {
	prod, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if !domain.IsItemOwner(p, prod) {
		return nil, apperr.ErrNotItemOwner
	}

	switch value {
	case "true":
		if err := s.Prods.SetVisible(productID, true); err != nil {
			return nil, apperr.ErrTxFailed(err)
		}
	case "false":
		if err := s.Transfers.PullListing(productID); err != nil {
			return nil, apperr.ErrTxFailed(err)
		}
	default:
		// Deliberately permissive no-op.
		return nil, nil
	}

	out, err := s.Prods.Get(productID)
	if err != nil {
		return nil, apperr.ErrTxFailed(err)
	}
	return &out, nil
}
