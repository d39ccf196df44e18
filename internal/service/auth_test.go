package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/repo"
	"github.com/trailmatch/backend/internal/service"
)

// mockUserRepo is a test double for repo.UserRepo.
type mockUserRepo struct {
	create            func(ctx context.Context, user domain.User) (domain.User, error)
	getByID           func(ctx context.Context, id int64) (domain.User, error)
	getByEmail        func(ctx context.Context, email string) (domain.User, error)
	list              func(ctx context.Context) ([]domain.User, error)
	updateProfile     func(ctx context.Context, id int64, upd domain.ProfileUpdate) (domain.User, error)
	updatePassword    func(ctx context.Context, id int64, passwordHash string) error
	updateRole        func(ctx context.Context, id int64, role domain.Role) error
	touchLastSignedIn func(ctx context.Context, id int64, now time.Time) error
	delete            func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (domain.User, error) {
	return m.updateProfile(ctx, id, upd)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.updatePassword(ctx, id, passwordHash)
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	return m.updateRole(ctx, id, role)
}
func (m *mockUserRepo) TouchLastSignedIn(ctx context.Context, id int64, now time.Time) error {
	return m.touchLastSignedIn(ctx, id, now)
}
func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// mockTokenRepo is a test double for repo.TokenRepo.
type mockTokenRepo struct {
	create     func(ctx context.Context, t domain.PasswordResetToken) (domain.PasswordResetToken, error)
	getByToken func(ctx context.Context, token string) (domain.PasswordResetToken, error)
	markUsed   func(ctx context.Context, id int64) error
}

func (m *mockTokenRepo) Create(ctx context.Context, t domain.PasswordResetToken) (domain.PasswordResetToken, error) {
	return m.create(ctx, t)
}
func (m *mockTokenRepo) GetByToken(ctx context.Context, token string) (domain.PasswordResetToken, error) {
	return m.getByToken(ctx, token)
}
func (m *mockTokenRepo) MarkUsed(ctx context.Context, id int64) error {
	return m.markUsed(ctx, id)
}

var _ repo.TokenRepo = (*mockTokenRepo)(nil)

// mockMailer records reset emails instead of sending them.
type mockMailer struct {
	sent []string // tokens handed to the mailer
}

func (m *mockMailer) SendPasswordReset(_ context.Context, _, token, _ string) error {
	m.sent = append(m.sent, token)
	return nil
}

var _ service.Mailer = (*mockMailer)(nil)

// ---- helpers ---------------------------------------------------------------

var testSecret = []byte("test-jwt-secret")

func newAuthService(users repo.UserRepo, tokens repo.TokenRepo, mailer service.Mailer) *service.AuthService {
	return service.NewAuthService(users, tokens, mailer, testSecret, discardLogger()).
		WithClock(func() time.Time { return testNow })
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// noUserRepo returns a user repo where no account exists yet and Create
// echoes back with an assigned ID.
func noUserRepo() *mockUserRepo {
	return &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			u.ID = 42
			return u, nil
		},
	}
}

// ---- Signup ----------------------------------------------------------------

func TestAuthService_Signup(t *testing.T) {
	svc := newAuthService(noUserRepo(), nil, nil)

	user, token, err := svc.Signup(context.Background(), "Rig.Pilot@Example.COM", "hunter2hunter2", "Rig Pilot")

	require.NoError(t, err)
	assert.Equal(t, "rig.pilot@example.com", user.Email, "email is stored lowercased")
	assert.Equal(t, "Rig Pilot", user.Name)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash, "password is never stored in the clear")
}

func TestAuthService_Signup_NameDefaultsFromEmail(t *testing.T) {
	svc := newAuthService(noUserRepo(), nil, nil)

	user, _, err := svc.Signup(context.Background(), "crawler@example.com", "hunter2hunter2", "")

	require.NoError(t, err)
	assert.Equal(t, "crawler", user.Name)
}

func TestAuthService_Signup_ShortPassword(t *testing.T) {
	svc := newAuthService(noUserRepo(), nil, nil)

	_, _, err := svc.Signup(context.Background(), "crawler@example.com", "short", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{ID: 1}, nil
		},
	}
	svc := newAuthService(users, nil, nil)

	_, _, err := svc.Signup(context.Background(), "taken@example.com", "hunter2hunter2", "")

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---- Login -----------------------------------------------------------------

func TestAuthService_Login(t *testing.T) {
	account := domain.User{ID: 42, Email: "crawler@example.com", PasswordHash: hashOf(t, "hunter2hunter2")}
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			assert.Equal(t, "crawler@example.com", email)
			return account, nil
		},
		touchLastSignedIn: func(_ context.Context, _ int64, _ time.Time) error { return nil },
	}
	svc := newAuthService(users, nil, nil)

	user, token, err := svc.Login(context.Background(), "Crawler@Example.com", "hunter2hunter2")

	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	account := domain.User{ID: 42, PasswordHash: hashOf(t, "hunter2hunter2")}
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return account, nil },
	}
	svc := newAuthService(users, nil, nil)

	_, _, err := svc.Login(context.Background(), "crawler@example.com", "wrong-password")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := newAuthService(users, nil, nil)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter2hunter2")

	// Same sentinel as a wrong password, so account existence never leaks.
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Login_FederatedAccountHasNoPassword(t *testing.T) {
	account := domain.User{ID: 42, LoginMethod: "google", PasswordHash: ""}
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return account, nil },
	}
	svc := newAuthService(users, nil, nil)

	_, _, err := svc.Login(context.Background(), "federated@example.com", "anything-at-all")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---- ParseSession ----------------------------------------------------------

func TestAuthService_ParseSession_RoundTrip(t *testing.T) {
	account := domain.User{ID: 42, Email: "crawler@example.com", PasswordHash: hashOf(t, "hunter2hunter2")}
	users := &mockUserRepo{
		getByEmail:        func(_ context.Context, _ string) (domain.User, error) { return account, nil },
		getByID:           func(_ context.Context, id int64) (domain.User, error) { return account, nil },
		touchLastSignedIn: func(_ context.Context, _ int64, _ time.Time) error { return nil },
	}
	svc := newAuthService(users, nil, nil)

	_, token, err := svc.Login(context.Background(), "crawler@example.com", "hunter2hunter2")
	require.NoError(t, err)

	user, err := svc.ParseSession(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
}

func TestAuthService_ParseSession_Garbage(t *testing.T) {
	svc := newAuthService(&mockUserRepo{}, nil, nil)

	_, err := svc.ParseSession(context.Background(), "not.a.jwt")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ParseSession_Expired(t *testing.T) {
	account := domain.User{ID: 42, Email: "crawler@example.com", PasswordHash: hashOf(t, "hunter2hunter2")}
	users := &mockUserRepo{
		getByEmail:        func(_ context.Context, _ string) (domain.User, error) { return account, nil },
		getByID:           func(_ context.Context, _ int64) (domain.User, error) { return account, nil },
		touchLastSignedIn: func(_ context.Context, _ int64, _ time.Time) error { return nil },
	}
	svc := newAuthService(users, nil, nil)

	_, token, err := svc.Login(context.Background(), "crawler@example.com", "hunter2hunter2")
	require.NoError(t, err)

	// Move the clock past the 7-day session TTL.
	svc.WithClock(func() time.Time { return testNow.Add(8 * 24 * time.Hour) })

	_, err = svc.ParseSession(context.Background(), token)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---- Password reset --------------------------------------------------------

func TestAuthService_RequestPasswordReset(t *testing.T) {
	account := domain.User{ID: 42, Email: "crawler@example.com", Name: "Crawler"}
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return account, nil },
	}
	var stored domain.PasswordResetToken
	tokens := &mockTokenRepo{
		create: func(_ context.Context, tok domain.PasswordResetToken) (domain.PasswordResetToken, error) {
			stored = tok
			return tok, nil
		},
	}
	mailer := &mockMailer{}
	svc := newAuthService(users, tokens, mailer)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "crawler@example.com"))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, stored.Token, mailer.sent[0], "the mailed token is the stored token")
	assert.Len(t, stored.Token, 64, "32 random bytes, hex encoded")
	assert.Equal(t, testNow.Add(time.Hour), stored.ExpiresAt)
}

func TestAuthService_RequestPasswordReset_UnknownEmailSilent(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	mailer := &mockMailer{}
	svc := newAuthService(users, &mockTokenRepo{}, mailer)

	// Unknown emails succeed silently so the endpoint cannot enumerate accounts.
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, mailer.sent)
}

func TestAuthService_ResetPassword(t *testing.T) {
	stored := domain.PasswordResetToken{
		ID:        7,
		UserID:    42,
		Token:     "token-value",
		ExpiresAt: testNow.Add(30 * time.Minute),
	}
	tokens := &mockTokenRepo{
		getByToken: func(_ context.Context, _ string) (domain.PasswordResetToken, error) { return stored, nil },
		markUsed: func(_ context.Context, id int64) error {
			assert.Equal(t, int64(7), id)
			return nil
		},
	}
	var newHash string
	users := &mockUserRepo{
		updatePassword: func(_ context.Context, id int64, hash string) error {
			assert.Equal(t, int64(42), id)
			newHash = hash
			return nil
		},
	}
	svc := newAuthService(users, tokens, nil)

	require.NoError(t, svc.ResetPassword(context.Background(), "token-value", "brand-new-password"))

	require.NotEmpty(t, newHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("brand-new-password")))
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	stored := domain.PasswordResetToken{
		ID:        7,
		UserID:    42,
		ExpiresAt: testNow.Add(-time.Minute),
	}
	tokens := &mockTokenRepo{
		getByToken: func(_ context.Context, _ string) (domain.PasswordResetToken, error) { return stored, nil },
	}
	svc := newAuthService(&mockUserRepo{}, tokens, nil)

	err := svc.ResetPassword(context.Background(), "token-value", "brand-new-password")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_ResetPassword_UsedTokenNotFound(t *testing.T) {
	tokens := &mockTokenRepo{
		getByToken: func(_ context.Context, _ string) (domain.PasswordResetToken, error) {
			// GetByToken only returns unused tokens, so a redeemed token
			// surfaces as not found.
			return domain.PasswordResetToken{}, domain.ErrNotFound
		},
	}
	svc := newAuthService(&mockUserRepo{}, tokens, nil)

	err := svc.ResetPassword(context.Background(), "token-value", "brand-new-password")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- UpdateProfile ---------------------------------------------------------

func TestAuthService_UpdateProfile_InvalidExperience(t *testing.T) {
	svc := newAuthService(&mockUserRepo{}, nil, nil)

	bad := domain.ExperienceLevel("galactic")
	_, err := svc.UpdateProfile(context.Background(), 42, domain.ProfileUpdate{ExperienceLevel: &bad})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
