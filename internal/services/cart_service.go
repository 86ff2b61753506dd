package services

import (
	"database/sql"
	"errors"

	"bidmarket/internal/apperr"
	"bidmarket/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add saves a product in the session cart at its current price. One-of-a-kind
// items have no quantity; adding twice is a no-op.
func (s *CartService) Add(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return apperr.ErrTxFailed(err)
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrProductNotFound
		}
		return apperr.ErrTxFailed(err)
	}
	if !p.Visible {
		return apperr.ErrProductHidden
	}
	return s.Carts.AddItem(cartID, productID, p.Price)
}

type CartView struct {
	Items []repos.CartItemRow `json:"items"`
	Total float64             `json:"total"`
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, apperr.ErrTxFailed(err)
	}
	items, total, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, apperr.ErrTxFailed(err)
	}
	return CartView{Items: items, Total: total}, nil
}

func (s *CartService) Remove(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return apperr.ErrTxFailed(err)
	}
	return s.Carts.RemoveItem(cartID, productID)
}
