// Package handler implements the HTTP handlers for the TrailMatch API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, auth.go, etc.) but all share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailmatch/backend/internal/domain"
)

// TripServicer defines the business operations the trip handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id int64) (domain.Trip, error)
	List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)
	MyTrips(ctx context.Context, userID int64) (organized, joined []domain.Trip, err error)
	Update(ctx context.Context, callerID, tripID int64, upd domain.TripUpdate) (domain.Trip, error)
	Delete(ctx context.Context, callerID, tripID int64) error
	CreatePaymentIntent(ctx context.Context, callerID, tripID int64, tier domain.Tier) (clientSecret string, amountCents int64, err error)
	ConfirmUpgrade(ctx context.Context, callerID, tripID int64, paymentIntentID string, tier domain.Tier) error
}

// AuthServicer defines the account operations the auth handler depends on.
type AuthServicer interface {
	Signup(ctx context.Context, email, password, name string) (domain.User, string, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (domain.User, error)
}

// VehicleServicer defines the vehicle operations the handler depends on.
type VehicleServicer interface {
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, id int64) (domain.Vehicle, error)
	ListMine(ctx context.Context, userID int64) ([]domain.Vehicle, error)
	Update(ctx context.Context, callerID, vehicleID int64, upd domain.VehicleUpdate) (domain.Vehicle, error)
	Delete(ctx context.Context, callerID, vehicleID int64) error
}

// ParticipantServicer defines the join-request operations the handler
// depends on.
type ParticipantServicer interface {
	RequestJoin(ctx context.Context, userID, tripID, vehicleID int64, message string) (domain.TripParticipant, error)
	ListForTrip(ctx context.Context, tripID int64) ([]domain.TripParticipantDetail, error)
	SetStatus(ctx context.Context, callerID, participantID int64, status domain.ParticipantStatus) (domain.TripParticipant, error)
}

// ShopServicer defines the shop directory operations the handler depends on.
type ShopServicer interface {
	Create(ctx context.Context, shop domain.Shop) (domain.Shop, error)
	GetByID(ctx context.Context, id int64) (domain.Shop, error)
	List(ctx context.Context, f domain.ShopFilter) ([]domain.Shop, error)
	AddReview(ctx context.Context, review domain.ShopReview) (domain.ShopReview, error)
	ListReviews(ctx context.Context, shopID int64) ([]domain.ShopReview, error)
}

// AdminServicer defines the moderation operations the admin handler depends
// on. Role checks live in the service so the gate cannot be bypassed by a
// routing mistake.
type AdminServicer interface {
	ListUsers(ctx context.Context, caller domain.User) ([]domain.User, error)
	ListTrips(ctx context.Context, caller domain.User) ([]domain.Trip, error)
	ListShops(ctx context.Context, caller domain.User) ([]domain.Shop, error)
	DeleteUser(ctx context.Context, caller domain.User, userID int64) error
	DeleteTrip(ctx context.Context, caller domain.User, tripID int64) error
	DeleteShop(ctx context.Context, caller domain.User, shopID int64) error
	UpdateUserRole(ctx context.Context, caller domain.User, userID int64, role domain.Role) error
}

// UploadServicer defines the photo upload operation the handler depends on.
type UploadServicer interface {
	UploadPhoto(ctx context.Context, userID int64, data []byte, fileName, contentType string) (string, error)
}

// Server holds every handler dependency. Methods are in domain-specific
// files but all operate on this struct.
type Server struct {
	trips        TripServicer
	auth         AuthServicer
	vehicles     VehicleServicer
	participants ParticipantServicer
	shops        ShopServicer
	admin        AdminServicer
	uploads      UploadServicer

	secureCookies bool
}

// NewServer constructs the Server with all its dependencies. secureCookies
// should be true in any deployment terminating TLS.
func NewServer(
	trips TripServicer,
	auth AuthServicer,
	vehicles VehicleServicer,
	participants ParticipantServicer,
	shops ShopServicer,
	admin AdminServicer,
	uploads UploadServicer,
	secureCookies bool,
) *Server {
	return &Server{
		trips:         trips,
		auth:          auth,
		vehicles:      vehicles,
		participants:  participants,
		shops:         shops,
		admin:         admin,
		uploads:       uploads,
		secureCookies: secureCookies,
	}
}

// Routes mounts every endpoint under /api/v1. The optional middleware
// attaches the session user when present; required rejects anonymous
// requests with 401.
func (s *Server) Routes(optional, required func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(optional)

		r.Post("/auth/signup", s.Signup)
		r.Post("/auth/login", s.Login)
		r.Post("/auth/logout", s.Logout)
		r.Post("/auth/password-reset/request", s.RequestPasswordReset)
		r.Post("/auth/password-reset/confirm", s.ConfirmPasswordReset)

		r.Get("/trips", s.ListTrips)
		r.Get("/trips/{tripID}", s.GetTrip)
		r.Get("/trips/{tripID}/participants", s.ListParticipants)

		r.Get("/shops", s.ListShops)
		r.Get("/shops/{shopID}", s.GetShop)
		r.Get("/shops/{shopID}/reviews", s.ListShopReviews)

		r.Group(func(r chi.Router) {
			r.Use(required)

			r.Get("/me", s.Me)
			r.Patch("/me", s.UpdateProfile)

			r.Post("/trips", s.CreateTrip)
			r.Get("/trips/mine", s.MyTrips)
			r.Patch("/trips/{tripID}", s.UpdateTrip)
			r.Delete("/trips/{tripID}", s.DeleteTrip)
			r.Post("/trips/{tripID}/upgrade/intent", s.CreateUpgradeIntent)
			r.Post("/trips/{tripID}/upgrade/confirm", s.ConfirmUpgrade)
			r.Post("/trips/{tripID}/join", s.RequestJoin)
			r.Patch("/participants/{participantID}", s.SetParticipantStatus)

			r.Post("/vehicles", s.CreateVehicle)
			r.Get("/vehicles", s.MyVehicles)
			r.Get("/vehicles/{vehicleID}", s.GetVehicle)
			r.Patch("/vehicles/{vehicleID}", s.UpdateVehicle)
			r.Delete("/vehicles/{vehicleID}", s.DeleteVehicle)

			r.Post("/shops", s.CreateShop)
			r.Post("/shops/{shopID}/reviews", s.AddShopReview)

			r.Post("/uploads/photos", s.UploadPhoto)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/users", s.AdminListUsers)
				r.Get("/trips", s.AdminListTrips)
				r.Get("/shops", s.AdminListShops)
				r.Delete("/users/{userID}", s.AdminDeleteUser)
				r.Delete("/trips/{tripID}", s.AdminDeleteTrip)
				r.Delete("/shops/{shopID}", s.AdminDeleteShop)
				r.Patch("/users/{userID}/role", s.AdminUpdateUserRole)
			})
		})
	})

	return r
}

// Health reports liveness. No dependencies are touched; readiness is the
// load balancer's concern.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
