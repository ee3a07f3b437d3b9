package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// Contact is the user listing shape the frontend's contact book renders.
// The password hash never appears in any serialized form.
type Contact struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	NameTag string `json:"name_tag"`
	Color   string `json:"color"`
	Phone   int64  `json:"phone"`
	Email   string `json:"email"`
}

// UserInput carries a direct create or full-replace payload. Unlike
// registration there is no confirmation check and no tag/color derivation.
type UserInput struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	NameTag     string `json:"name_tag"`
	Color       string `json:"color"`
	Phone       int64  `json:"phone"`
	Password    string `json:"password"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UserPatch carries a partial update; nil fields are left untouched.
// There is deliberately no password field: password changes are out of
// scope for the user endpoints.
type UserPatch struct {
	Email   *string `json:"email"`
	Name    *string `json:"name"`
	NameTag *string `json:"name_tag"`
	Color   *string `json:"color"`
	Phone   *int64  `json:"phone"`
}

// UserService exposes contact-book operations. Writes return the refreshed
// full listing, mirroring the task endpoints.
type UserService interface {
	List(ctx context.Context) ([]Contact, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, input UserInput) ([]Contact, error)
	Update(ctx context.Context, input UserInput) ([]Contact, error)
	Patch(ctx context.Context, id uint, patch UserPatch) (*model.User, error)
	Delete(ctx context.Context, id uint) ([]Contact, error)
}

type userService struct {
	users  repository.UserRepository
	tokens auth.Store
	cache  *cache.Client
}

// NewUserService builds a UserService with repository, token store and cache.
func NewUserService(users repository.UserRepository, tokens auth.Store, cache *cache.Client) UserService {
	return &userService{users: users, tokens: tokens, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) List(ctx context.Context) ([]Contact, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	contacts := make([]Contact, 0, len(users))
	for i := range users {
		contacts = append(contacts, toContact(&users[i]))
	}
	return contacts, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, input UserInput) ([]Contact, error) {
	if input.Email != "" {
		existing, err := s.users.FindByEmail(ctx, input.Email)
		if err == nil && existing != nil {
			return nil, apperrors.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user := &model.User{
		Email:       input.Email,
		Name:        input.Name,
		NameTag:     input.NameTag,
		Color:       input.Color,
		Phone:       input.Phone,
		IsActive:    input.IsActive,
		IsStaff:     input.IsStaff,
		IsSuperuser: input.IsSuperuser,
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// Update replaces every field of the user except the password hash, which
// is always preserved no matter what the payload carries.
func (s *userService) Update(ctx context.Context, input UserInput) ([]Contact, error) {
	user, err := s.users.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	user.Email = input.Email
	user.Name = input.Name
	user.NameTag = input.NameTag
	user.Color = input.Color
	user.Phone = input.Phone
	user.IsActive = input.IsActive
	user.IsStaff = input.IsStaff
	user.IsSuperuser = input.IsSuperuser

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.invalidate(ctx, input.ID)
	return s.List(ctx)
}

func (s *userService) Patch(ctx context.Context, id uint, patch UserPatch) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.NameTag != nil {
		user.NameTag = *patch.NameTag
	}
	if patch.Color != nil {
		user.Color = *patch.Color
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) ([]Contact, error) {
	if err := s.tokens.RevokeUser(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.List(ctx)
}

// invalidate drops the cached user and the task listing, whose assignedTo
// projections embed user names and colors.
func (s *userService) invalidate(ctx context.Context, id uint) {
	_ = s.cache.Delete(ctx, s.cacheKey(id), taskListCacheKey)
}

func toContact(user *model.User) Contact {
	return Contact{
		ID:      user.ID,
		Name:    user.Name,
		NameTag: user.NameTag,
		Color:   user.Color,
		Phone:   user.Phone,
		Email:   user.Email,
	}
}
