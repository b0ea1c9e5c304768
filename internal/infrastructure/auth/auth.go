// Package auth supplies the single fact the core needs from the
// authentication collaborator: the current user's id. Tokens, sessions
// and login are out of scope.
package auth

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"teamhub/clients/chat-sync/internal/config"
)

// StaticProvider returns a fixed user id. Used when the id is configured
// directly and throughout tests.
type StaticProvider struct {
	id int64
}

// NewStaticProvider creates a provider for a fixed user id.
func NewStaticProvider(id int64) *StaticProvider {
	return &StaticProvider{id: id}
}

// CurrentUserID returns the configured user id.
func (p *StaticProvider) CurrentUserID() int64 {
	return p.id
}

// FromConfig resolves the current user id from configuration: an explicit
// CHAT_USER_ID wins, otherwise the id is read from the session token's
// subject claim. Signature validation is the server's job; the client
// only extracts the claim.
func FromConfig(cfg *config.Config, log zerolog.Logger) (*StaticProvider, error) {
	if cfg.UserID != 0 {
		return NewStaticProvider(cfg.UserID), nil
	}

	id, err := userIDFromToken(cfg.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	log.Debug().Int64("user_id", id).Msg("current user resolved from token")
	return NewStaticProvider(id), nil
}

func userIDFromToken(token string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, fmt.Errorf("token has no subject claim")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token subject %q is not a user id", sub)
	}
	return id, nil
}
