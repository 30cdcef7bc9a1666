package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jobboard-service/internal/apperrors"
	"jobboard-service/internal/configs"
	"jobboard-service/internal/models"
)

// UserFinder is the slice of storage the gate needs.
type UserFinder interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Principal is an authenticated user together with the session it presented.
type Principal struct {
	*models.User
	Session *SessionClaims
}

// Gate resolves session tokens to principals.
type Gate struct {
	users    UserFinder
	tokens   *TokenManager
	denylist Denylist
}

func NewGate(users UserFinder, tokens *TokenManager, denylist Denylist) *Gate {
	if denylist == nil {
		denylist = NoopDenylist{}
	}
	return &Gate{users: users, tokens: tokens, denylist: denylist}
}

// Authenticate verifies the token and loads the account behind it. Bad
// signatures, expired or revoked sessions and deleted users all fail the same
// way. Approval and email verification are then enforced for every role.
func (g *Gate) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, apperrors.Unauthenticated("No token provided")
	}
	claims, err := g.tokens.ParseSession(token)
	if err != nil {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}

	revoked, err := g.denylist.IsRevoked(ctx, claims.RegisteredClaims.ID)
	if err != nil {
		log.Error().Err(err).Msg("Error checking session revocation")
		return nil, apperrors.Unauthenticated("Unauthorized")
	}
	if revoked {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}

	user, err := g.users.FindUserByID(ctx, id)
	if err != nil {
		if !errors.Is(err, configs.ErrNotFound) {
			log.Error().Err(err).Str("user_id", claims.ID).Msg("Error loading session user")
		}
		return nil, apperrors.Unauthenticated("Unauthorized")
	}

	if user.Status != models.StatusApproved {
		return nil, apperrors.Forbidden(apperrors.ReasonAccountNotApproved, "Account not approved").
			With("status", user.Status)
	}
	if !user.EmailVerified {
		return nil, apperrors.Forbidden(apperrors.ReasonEmailNotVerified, "Please verify your email first")
	}
	return &Principal{User: user, Session: claims}, nil
}

// Revoke ends the session early. Tokens that do not parse have nothing to revoke.
func (g *Gate) Revoke(ctx context.Context, token string) error {
	claims, err := g.tokens.ParseSession(token)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	return g.denylist.Revoke(ctx, claims.RegisteredClaims.ID, claims.ExpiresAt.Time)
}

// Authorize allows the principal only when its role is one of roles.
func Authorize(user *models.User, roles ...models.Role) error {
	for _, r := range roles {
		if user.Role == r {
			return nil
		}
	}
	return apperrors.Forbidden(apperrors.ReasonInsufficientRole, "Access denied: insufficient role")
}

