package handler

import (
	"net/http"
	"strings"

	"github.com/trailmatch/backend/internal/domain"
)

type createShopRequest struct {
	Name             string   `json:"name" validate:"required"`
	Description      string   `json:"description"`
	Categories       []string `json:"categories" validate:"required,min=1"`
	OtherDescription string   `json:"other_description"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	ZipCode          string   `json:"zip_code"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email"`
	Website          string   `json:"website"`
	Photos           []string `json:"photos"`
}

type createReviewRequest struct {
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText     string `json:"review_text"`
	ServiceType    string `json:"service_type"`
	WouldRecommend *bool  `json:"would_recommend"`
}

// CreateShop adds a shop to the community directory.
func (s *Server) CreateShop(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var req createShopRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	categories := make([]domain.ShopCategory, len(req.Categories))
	for i, c := range req.Categories {
		categories[i] = domain.ShopCategory(c)
	}
	created, err := s.shops.Create(r.Context(), domain.Shop{
		AddedBy:          user.ID,
		Name:             req.Name,
		Description:      req.Description,
		Categories:       categories,
		OtherDescription: req.OtherDescription,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		Phone:            req.Phone,
		Email:            req.Email,
		Website:          req.Website,
		Photos:           req.Photos,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListShops returns shops matching the query filters.
func (s *Server) ListShops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ShopFilter{
		State: q.Get("state"),
		City:  q.Get("city"),
	}
	if cats := q.Get("categories"); cats != "" {
		for _, c := range strings.Split(cats, ",") {
			f.Categories = append(f.Categories, domain.ShopCategory(c))
		}
	}
	shops, err := s.shops.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shops)
}

// GetShop returns a single shop by ID.
func (s *Server) GetShop(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "shopID")
	if err != nil {
		writeRequestError(w, "invalid shop id")
		return
	}
	shop, err := s.shops.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

// AddShopReview posts the caller's rating of a shop.
func (s *Server) AddShopReview(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	shopID, err := idParam(r, "shopID")
	if err != nil {
		writeRequestError(w, "invalid shop id")
		return
	}
	var req createReviewRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	created, err := s.shops.AddReview(r.Context(), domain.ShopReview{
		ShopID:         shopID,
		UserID:         user.ID,
		Rating:         req.Rating,
		ReviewText:     req.ReviewText,
		ServiceType:    req.ServiceType,
		WouldRecommend: req.WouldRecommend,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListShopReviews returns every review for a shop, newest first.
func (s *Server) ListShopReviews(w http.ResponseWriter, r *http.Request) {
	shopID, err := idParam(r, "shopID")
	if err != nil {
		writeRequestError(w, "invalid shop id")
		return
	}
	reviews, err := s.shops.ListReviews(r.Context(), shopID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
