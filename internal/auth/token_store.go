package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/cache"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const (
	tokenKeyPrefix = "auth_token:"
	tokenCacheTTL  = 5 * time.Minute
)

// Store defines the token operations the services and middleware need.
type Store interface {
	Issue(ctx context.Context, userID uint) (*model.AuthToken, error)
	Resolve(ctx context.Context, key string) (*model.User, error)
	RevokeUser(ctx context.Context, userID uint) error
}

// TokenStore issues and resolves opaque bearer tokens. Tokens live in the
// database (one row per user); redis only caches key-to-user lookups so the
// hot path skips a join on every authenticated request.
type TokenStore struct {
	repo  repository.TokenRepository
	cache *cache.Client
}

// Ensure TokenStore implements Store
var _ Store = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(repo repository.TokenRepository, cache *cache.Client) *TokenStore {
	return &TokenStore{repo: repo, cache: cache}
}

// Issue returns the user's token, creating one on first use.
func (s *TokenStore) Issue(ctx context.Context, userID uint) (*model.AuthToken, error) {
	if token, err := s.repo.FindByUser(ctx, userID); err == nil {
		return token, nil
	}
	token := &model.AuthToken{
		Key:    uuid.NewString(),
		UserID: userID,
	}
	if err := s.repo.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Resolve maps a token key to its user, via cache with DB fallback.
func (s *TokenStore) Resolve(ctx context.Context, key string) (*model.User, error) {
	cacheKey := tokenKeyPrefix + key
	if data, _ := s.cache.Get(ctx, cacheKey); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	token, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(&token.User); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, tokenCacheTTL)
	}
	return &token.User, nil
}

// RevokeUser drops the user's token and its cached lookup. Called when a
// user row is deleted so the credential dies with the account.
func (s *TokenStore) RevokeUser(ctx context.Context, userID uint) error {
	token, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		// No token was ever issued.
		return nil
	}
	_ = s.cache.Delete(ctx, tokenKeyPrefix+token.Key)
	return s.repo.DeleteByUser(ctx, userID)
}
