package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jobboard-service/internal/apperrors"
	"jobboard-service/internal/configs"
	"jobboard-service/internal/models"
)

type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func (d *memoryDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.revoked == nil {
		d.revoked = map[string]time.Time{}
	}
	d.revoked[jti] = until
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[jti]
	return ok, nil
}

type gateFixture struct {
	db     *configs.MemoryDB
	tokens *TokenManager
	deny   *memoryDenylist
	gate   *Gate
}

func newGateFixture() *gateFixture {
	f := &gateFixture{
		db:     configs.NewMemoryDB(),
		tokens: NewTokenManager("session-secret", "email-secret", time.Hour, time.Hour),
		deny:   &memoryDenylist{},
	}
	f.gate = NewGate(f.db, f.tokens, f.deny)
	return f
}

func (f *gateFixture) user(t *testing.T, role models.Role, mutate func(*models.User)) (*models.User, string) {
	t.Helper()
	u := models.NewUser("User", primitive.NewObjectID().Hex()+"@example.com", "hash", role)
	if mutate != nil {
		mutate(&u)
	}
	id, err := f.db.CreateUser(context.Background(), u)
	require.NoError(t, err)
	u.Id = id
	token, _, err := f.tokens.IssueSession(&u)
	require.NoError(t, err)
	return &u, token
}

func verified(u *models.User) { u.EmailVerified = true }

func TestAuthenticateApprovedVerifiedUser(t *testing.T) {
	f := newGateFixture()
	u, token := f.user(t, models.RoleCandidate, verified)

	p, err := f.gate.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, u.Id, p.Id)
	assert.Equal(t, models.RoleCandidate, p.Role)
	assert.NotEmpty(t, p.Session.RegisteredClaims.ID)
}

func TestAuthenticateMissingOrBadToken(t *testing.T) {
	f := newGateFixture()

	_, err := f.gate.Authenticate(context.Background(), "")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
	assert.Equal(t, "No token provided", apperrors.From(err).Message)

	_, err = f.gate.Authenticate(context.Background(), "not.a.jwt")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
}

func TestAuthenticateDeletedUser(t *testing.T) {
	f := newGateFixture()
	u, token := f.user(t, models.RoleCandidate, verified)
	require.NoError(t, f.db.DeleteUser(context.Background(), models.UserScope{Id: u.Id}))

	_, err := f.gate.Authenticate(context.Background(), token)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
}

func TestAuthenticateRequiresApproval(t *testing.T) {
	f := newGateFixture()
	_, token := f.user(t, models.RoleAdmin, verified)

	_, err := f.gate.Authenticate(context.Background(), token)
	require.True(t, apperrors.IsForbidden(err, apperrors.ReasonAccountNotApproved))
	assert.Equal(t, models.StatusPending, apperrors.From(err).Details["status"])
}

func TestAuthenticateRequiresVerifiedEmailForEveryRole(t *testing.T) {
	f := newGateFixture()
	// candidates start approved but unverified
	_, token := f.user(t, models.RoleCandidate, nil)

	_, err := f.gate.Authenticate(context.Background(), token)
	assert.True(t, apperrors.IsForbidden(err, apperrors.ReasonEmailNotVerified))
}

func TestRevokedSessionIsRejected(t *testing.T) {
	f := newGateFixture()
	u, token := f.user(t, models.RoleCandidate, verified)

	require.NoError(t, f.gate.Revoke(context.Background(), token))
	_, err := f.gate.Authenticate(context.Background(), token)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))

	// a new session for the same user is unaffected
	fresh, _, err := f.tokens.IssueSession(u)
	require.NoError(t, err)
	_, err = f.gate.Authenticate(context.Background(), fresh)
	assert.NoError(t, err)
}

func TestRevokeIgnoresUnparseableTokens(t *testing.T) {
	f := newGateFixture()
	assert.NoError(t, f.gate.Revoke(context.Background(), "garbage"))
	assert.Empty(t, f.deny.revoked)
}

func TestDenylistFailureFailsClosed(t *testing.T) {
	f := newGateFixture()
	_, token := f.user(t, models.RoleCandidate, verified)
	f.deny.err = errors.New("redis down")

	_, err := f.gate.Authenticate(context.Background(), token)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
}

func TestAuthorize(t *testing.T) {
	u := testUser(models.RoleEmployee)
	assert.NoError(t, Authorize(u, models.RoleAdmin, models.RoleEmployee))

	err := Authorize(u, models.RoleSuperadmin)
	assert.True(t, apperrors.IsForbidden(err, apperrors.ReasonInsufficientRole))
	assert.Error(t, Authorize(u))
}
