package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository"
)

// Resolver turns an opaque token into the user it identifies. It returns
// nil, nil when the token is empty, unknown or expired; an error means the
// lookup itself failed.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// SessionResolver reads sessions issued by the external auth provider.
type SessionResolver struct {
	sessions repository.SessionRepository
	now      func() time.Time
}

func NewSessionResolver(sessions repository.SessionRepository) *SessionResolver {
	return &SessionResolver{sessions: sessions, now: time.Now}
}

func (r *SessionResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.sessions.UserByToken(ctx, token, r.now())
}

// JWTResolver accepts HS256 tokens from GenerateToken and loads the user
// they name.
type JWTResolver struct {
	secret string
	users  repository.UserRepository
	logger *zap.Logger
}

func NewJWTResolver(secret string, users repository.UserRepository, logger *zap.Logger) *JWTResolver {
	return &JWTResolver{secret: secret, users: users, logger: logger}
}

func (r *JWTResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := ParseToken(token, r.secret)
	if err != nil {
		r.logger.Debug("rejected session token", zap.Error(err))
		return nil, nil
	}
	return r.users.GetByID(ctx, claims.UserID)
}
