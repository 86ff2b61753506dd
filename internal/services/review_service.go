package services

import (
	"bidmarket/internal/apperr"
	"bidmarket/internal/domain"
	"bidmarket/internal/repos"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods}
}

func (s *ReviewService) ListForProduct(productID string) ([]domain.Review, error) {
	if _, err := s.Prods.Get(productID); err != nil {
		return nil, apperr.ErrProductNotFound
	}
	return s.Reviews.ListByProduct(productID)
}

func (s *ReviewService) Post(p domain.Principal, productID, description string) (domain.Review, error) {
	if _, err := s.Prods.Get(productID); err != nil {
		return domain.Review{}, apperr.ErrProductNotFound
	}
	rev := domain.Review{
		ID:          newID(),
		ProductID:   productID,
		PostedByID:  p.UserID,
		Description: description,
	}
	if err := s.Reviews.Insert(rev); err != nil {
		return domain.Review{}, apperr.ErrTxFailed(err)
	}
	return s.Reviews.Get(rev.ID)
}

func (s *ReviewService) Reply(p domain.Principal, reviewID, description string) (domain.Reply, error) {
	if _, err := s.Reviews.Get(reviewID); err != nil {
		return domain.Reply{}, apperr.NotFound("review not found")
	}
	rep := domain.Reply{
		ID:          newID(),
		ReviewID:    reviewID,
		PostedByID:  p.UserID,
		Description: description,
	}
	if err := s.Reviews.InsertReply(rep); err != nil {
		return domain.Reply{}, apperr.ErrTxFailed(err)
	}
	return rep, nil
}

func (s *ReviewService) Replies(reviewID string) ([]domain.Reply, error) {
	return s.Reviews.ListReplies(reviewID)
}
