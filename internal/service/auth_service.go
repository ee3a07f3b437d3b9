package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// defaultContactPassword is assigned to accounts registered through the
// invited-contact flow; those accounts stay inactive until activated.
const defaultContactPassword = "join356"

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Email            string
	Name             string
	Password         string
	RepeatedPassword string
	Phone            int64
	Contact          bool
}

// LoginResult is what the frontend needs to start a session.
type LoginResult struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	NameTag string `json:"name_tag"`
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	users  repository.UserRepository
	tokens auth.Store

	// rng drives color assignment; injected so tests can fix the seed.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens auth.Store, rng *rand.Rand) AuthService {
	return &authService{users: users, tokens: tokens, rng: rng}
}

// Register creates an account with a hashed password, derived name tag and
// random color, then lazily issues its token.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	isActive := true
	if input.Contact {
		// Invited contacts get the fixed placeholder password and stay
		// inactive until they activate the account themselves.
		input.Password = defaultContactPassword
		input.RepeatedPassword = defaultContactPassword
		isActive = false
	}

	if input.Password != input.RepeatedPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		Name:         input.Name,
		NameTag:      NameTag(input.Name),
		Color:        s.randomColor(),
		Phone:        input.Phone,
		PasswordHash: hash,
		IsActive:     isActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if _, err := s.tokens.Issue(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return user, nil
}

// Login authenticates by email and password and returns the session token.
// Inactive accounts are rejected before the password check, matching the
// behavior the frontend relies on for pending contacts.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrInactiveAccount
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token:   token.Key,
		Name:    user.Name,
		NameTag: user.NameTag,
	}, nil
}

// randomColor picks one of the 17 palette variants or the default sentinel.
func (s *authService) randomColor() string {
	s.mu.Lock()
	n := s.rng.Intn(18)
	s.mu.Unlock()
	if n == 1 {
		return "--default"
	}
	return fmt.Sprintf("--variant%02d", n)
}

// NameTag derives the two-letter tag shown on avatars: first letters of the
// first two name words. One-word names fall back to the word's first two
// runes so registration never fails on short names.
func NameTag(name string) string {
	words := strings.Fields(name)
	switch {
	case len(words) >= 2:
		return firstRune(words[0]) + firstRune(words[1])
	case len(words) == 1:
		runes := []rune(words[0])
		if len(runes) > 2 {
			runes = runes[:2]
		}
		return string(runes)
	default:
		return ""
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
