package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

// MockTokenRepository is a mock implementation of repository.TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *model.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) FindByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) FindByUser(ctx context.Context, userID uint) (*model.AuthToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestTokenStore_IssueReturnsExistingToken(t *testing.T) {
	mockRepo := new(MockTokenRepository)
	mockRepo.On("FindByUser", mock.Anything, uint(3)).Return(&model.AuthToken{Key: "existing", UserID: 3}, nil)

	store := NewTokenStore(mockRepo, nil)
	token, err := store.Issue(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, "existing", token.Key)
	mockRepo.AssertExpectations(t)
}

func TestTokenStore_IssueCreatesOnFirstUse(t *testing.T) {
	mockRepo := new(MockTokenRepository)
	mockRepo.On("FindByUser", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

	var created *model.AuthToken
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.AuthToken")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.AuthToken)
		}).Return(nil)

	store := NewTokenStore(mockRepo, nil)
	token, err := store.Issue(context.Background(), 3)

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.NotEmpty(t, token.Key)
	assert.Equal(t, uint(3), token.UserID)
	mockRepo.AssertExpectations(t)
}

func TestTokenStore_ResolveFallsBackToRepository(t *testing.T) {
	mockRepo := new(MockTokenRepository)
	mockRepo.On("FindByKey", mock.Anything, "tok").Return(&model.AuthToken{
		Key:    "tok",
		UserID: 3,
		User:   model.User{ID: 3, Email: "jane@example.com"},
	}, nil)

	store := NewTokenStore(mockRepo, nil)
	user, err := store.Resolve(context.Background(), "tok")

	assert.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestTokenStore_ResolveUnknownKey(t *testing.T) {
	mockRepo := new(MockTokenRepository)
	mockRepo.On("FindByKey", mock.Anything, "bogus").Return(nil, gorm.ErrRecordNotFound)

	store := NewTokenStore(mockRepo, nil)
	user, err := store.Resolve(context.Background(), "bogus")

	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestExtractKey(t *testing.T) {
	assert.Equal(t, "abc", extractKey("Token abc"))
	assert.Equal(t, "abc", extractKey("Bearer abc"))
	assert.Equal(t, "", extractKey("Basic abc"))
	assert.Equal(t, "", extractKey(""))
}
