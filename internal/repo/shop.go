package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trailmatch/backend/internal/domain"
)

// ShopRepo defines the persistence operations for shops and their reviews.
type ShopRepo interface {
	// Create inserts a new shop and returns the persisted record.
	Create(ctx context.Context, shop domain.Shop) (domain.Shop, error)

	// GetByID retrieves a shop by primary key.
	// Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (domain.Shop, error)

	// List returns shops matching the filter, newest first. A zero filter
	// returns everything.
	List(ctx context.Context, f domain.ShopFilter) ([]domain.Shop, error)

	// Delete removes a shop by ID. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// CreateReview inserts a review and returns the persisted record.
	CreateReview(ctx context.Context, review domain.ShopReview) (domain.ShopReview, error)

	// ListReviews returns a shop's reviews, newest first.
	ListReviews(ctx context.Context, shopID int64) ([]domain.ShopReview, error)
}

type pgShopRepo struct {
	db db
}

// NewShopRepo constructs a ShopRepo backed by the provided db connection.
func NewShopRepo(db db) ShopRepo {
	return &pgShopRepo{db: db}
}

const shopCols = `id, added_by, name, description, categories, other_description,
		address, city, state, zip_code, phone, email, website, photos,
		created_at, updated_at`

func (r *pgShopRepo) Create(ctx context.Context, shop domain.Shop) (domain.Shop, error) {
	q := `
		INSERT INTO shops (added_by, name, description, categories, other_description,
			address, city, state, zip_code, phone, email, website, photos)
		VALUES (@added_by, @name, @description, @categories, @other_description,
			@address, @city, @state, @zip_code, @phone, @email, @website, @photos)
		RETURNING ` + shopCols

	args := pgx.NamedArgs{
		"added_by":          shop.AddedBy,
		"name":              shop.Name,
		"description":       shop.Description,
		"categories":        categoryStrings(shop.Categories),
		"other_description": shop.OtherDescription,
		"address":           shop.Address,
		"city":              shop.City,
		"state":             shop.State,
		"zip_code":          shop.ZipCode,
		"phone":             shop.Phone,
		"email":             shop.Email,
		"website":           shop.Website,
		"photos":            emptyIfNil(shop.Photos),
	}

	result, err := scanShop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Shop{}, fmt.Errorf("repo.ShopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgShopRepo) GetByID(ctx context.Context, id int64) (domain.Shop, error) {
	q := `SELECT ` + shopCols + ` FROM shops WHERE id = @id`

	result, err := scanShop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Shop{}, fmt.Errorf("repo.ShopRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgShopRepo) List(ctx context.Context, f domain.ShopFilter) ([]domain.Shop, error) {
	// Nil args skip their predicate, so one query covers every filter combination.
	q := `
		SELECT ` + shopCols + `
		FROM shops
		WHERE (@categories::text[] IS NULL OR categories && @categories)
		  AND (@state::text IS NULL OR state = @state)
		  AND (@city::text IS NULL OR city = @city)
		ORDER BY created_at DESC`

	var cats []string
	if len(f.Categories) > 0 {
		cats = categoryStrings(f.Categories)
	}

	args := pgx.NamedArgs{
		"categories": cats,
		"state":      nullIfEmpty(f.State),
		"city":       nullIfEmpty(f.City),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ShopRepo.List: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ShopRepo.List: scan: %w", err)
		}
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ShopRepo.List: rows: %w", err)
	}

	return shops, nil
}

func (r *pgShopRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shops WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ShopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ShopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgShopRepo) CreateReview(ctx context.Context, review domain.ShopReview) (domain.ShopReview, error) {
	q := `
		INSERT INTO shop_reviews (shop_id, user_id, rating, review_text, service_type, would_recommend)
		VALUES (@shop_id, @user_id, @rating, @review_text, @service_type, @would_recommend)
		RETURNING id, shop_id, user_id, rating, review_text, service_type, would_recommend, created_at`

	args := pgx.NamedArgs{
		"shop_id":         review.ShopID,
		"user_id":         review.UserID,
		"rating":          review.Rating,
		"review_text":     review.ReviewText,
		"service_type":    review.ServiceType,
		"would_recommend": review.WouldRecommend,
	}

	result, err := scanReview(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ShopReview{}, fmt.Errorf("repo.ShopRepo.CreateReview: %w", err)
	}
	return result, nil
}

func (r *pgShopRepo) ListReviews(ctx context.Context, shopID int64) ([]domain.ShopReview, error) {
	q := `
		SELECT id, shop_id, user_id, rating, review_text, service_type, would_recommend, created_at
		FROM shop_reviews
		WHERE shop_id = @shop_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"shop_id": shopID})
	if err != nil {
		return nil, fmt.Errorf("repo.ShopRepo.ListReviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.ShopReview
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ShopRepo.ListReviews: scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ShopRepo.ListReviews: rows: %w", err)
	}

	return reviews, nil
}

// scanShop maps a single database row into a domain.Shop.
func scanShop(s scanner) (domain.Shop, error) {
	var (
		shop domain.Shop
		cats []string
	)

	err := s.Scan(
		&shop.ID, &shop.AddedBy, &shop.Name, &shop.Description, &cats,
		&shop.OtherDescription, &shop.Address, &shop.City, &shop.State,
		&shop.ZipCode, &shop.Phone, &shop.Email, &shop.Website, &shop.Photos,
		&shop.CreatedAt, &shop.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Shop{}, domain.ErrNotFound
		}
		return domain.Shop{}, err
	}

	shop.Categories = make([]domain.ShopCategory, len(cats))
	for i, c := range cats {
		shop.Categories[i] = domain.ShopCategory(c)
	}

	return shop, nil
}

// scanReview maps a single database row into a domain.ShopReview.
func scanReview(s scanner) (domain.ShopReview, error) {
	var rv domain.ShopReview

	err := s.Scan(&rv.ID, &rv.ShopID, &rv.UserID, &rv.Rating,
		&rv.ReviewText, &rv.ServiceType, &rv.WouldRecommend, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShopReview{}, domain.ErrNotFound
		}
		return domain.ShopReview{}, err
	}

	return rv, nil
}

// categoryStrings converts typed categories to the text[] the driver expects.
func categoryStrings(cats []domain.ShopCategory) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}
