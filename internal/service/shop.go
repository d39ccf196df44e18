package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/repo"
)

// ShopService implements business logic for repair shop listings and reviews.
type ShopService struct {
	shops repo.ShopRepo
	log   *slog.Logger
}

// NewShopService constructs a ShopService backed by the provided repo.
func NewShopService(shops repo.ShopRepo, log *slog.Logger) *ShopService {
	return &ShopService{shops: shops, log: log}
}

// Create validates and persists a new shop.
func (s *ShopService) Create(ctx context.Context, shop domain.Shop) (domain.Shop, error) {
	if strings.TrimSpace(shop.Name) == "" {
		return domain.Shop{}, fmt.Errorf("service.ShopService.Create: %w: name is required", domain.ErrValidation)
	}
	if len(shop.Categories) == 0 {
		return domain.Shop{}, fmt.Errorf("service.ShopService.Create: %w: at least one category is required", domain.ErrValidation)
	}
	for _, c := range shop.Categories {
		if !c.Valid() {
			return domain.Shop{}, fmt.Errorf("service.ShopService.Create: %w: unknown category %q", domain.ErrValidation, c)
		}
	}

	created, err := s.shops.Create(ctx, shop)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("service.ShopService.Create: %w", err)
	}
	return created, nil
}

// List returns shops matching the filter. A store failure on this read path
// degrades to an empty listing.
func (s *ShopService) List(ctx context.Context, f domain.ShopFilter) ([]domain.Shop, error) {
	shops, err := s.shops.List(ctx, f)
	if err != nil {
		s.log.WarnContext(ctx, "shop listing unavailable, returning empty set", "error", err)
		return []domain.Shop{}, nil
	}
	return shops, nil
}

// GetByID returns a single shop.
func (s *ShopService) GetByID(ctx context.Context, id int64) (domain.Shop, error) {
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("service.ShopService.GetByID: %w", err)
	}
	return shop, nil
}

// AddReview validates and persists a review of an existing shop.
func (s *ShopService) AddReview(ctx context.Context, review domain.ShopReview) (domain.ShopReview, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return domain.ShopReview{}, fmt.Errorf("service.ShopService.AddReview: %w: rating must be between 1 and 5", domain.ErrValidation)
	}
	if _, err := s.shops.GetByID(ctx, review.ShopID); err != nil {
		return domain.ShopReview{}, fmt.Errorf("service.ShopService.AddReview: %w", err)
	}

	created, err := s.shops.CreateReview(ctx, review)
	if err != nil {
		return domain.ShopReview{}, fmt.Errorf("service.ShopService.AddReview: %w", err)
	}
	return created, nil
}

// ListReviews returns a shop's reviews. A store failure on this read path
// degrades to an empty listing.
func (s *ShopService) ListReviews(ctx context.Context, shopID int64) ([]domain.ShopReview, error) {
	reviews, err := s.shops.ListReviews(ctx, shopID)
	if err != nil {
		s.log.WarnContext(ctx, "shop reviews unavailable, returning empty set", "shop_id", shopID, "error", err)
		return []domain.ShopReview{}, nil
	}
	return reviews, nil
}
