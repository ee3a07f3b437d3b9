package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_RegisterValidationFailure(t *testing.T) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	h := NewAuthHandler(new(MockAuthService))

	tests := []struct {
		name     string
		body     string
		expected map[string][]string
	}{
		{
			name: "missing everything",
			body: `{}`,
			expected: map[string][]string{
				"email": {"This field is required."},
				"name":  {"This field is required."},
			},
		},
		{
			name: "malformed email",
			body: `{"email":"not-an-email","name":"Jane","password":"x","repeated_password":"x"}`,
			expected: map[string][]string{
				"email": {"Enter a valid email address."},
			},
		},
		{
			name: "missing password on a direct signup",
			body: `{"email":"jane@example.com","name":"Jane Doe"}`,
			expected: map[string][]string{
				"password": {"This field is required."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(e, tt.body)
			err := h.Register(c)

			assert.NoError(t, err)
			// Field errors ride on a 200; the frontend inspects the body,
			// not the status.
			assert.Equal(t, http.StatusOK, rec.Code)

			var got map[string][]string
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAuthHandler_RegisterPasswordMismatch(t *testing.T) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	mockSvc := new(MockAuthService)
	mockSvc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
		Return(nil, apperrors.ErrPasswordMismatch)

	h := NewAuthHandler(mockSvc)
	c, rec := postJSON(e, `{"email":"jane@example.com","name":"Jane Doe","password":"one","repeated_password":"two"}`)

	assert.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":["Passwords do not match"]}`, rec.Body.String())
}

func TestAuthHandler_RegisterSuccess(t *testing.T) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	mockSvc := new(MockAuthService)
	mockSvc.On("Register", mock.Anything, service.RegisterInput{
		Email:            "jane@example.com",
		Name:             "Jane Doe",
		Password:         "password123",
		RepeatedPassword: "password123",
	}).Return(&model.User{ID: 1, Email: "jane@example.com"}, nil)

	h := NewAuthHandler(mockSvc)
	c, rec := postJSON(e, `{"email":"jane@example.com","name":"Jane Doe","password":"password123","repeated_password":"password123"}`)

	assert.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Account created successfully"}`, rec.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestAuthHandler_LoginMissingEmail(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(new(MockAuthService))

	c, _ := postJSON(e, `{"password":"whatever"}`)
	err := h.Login(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	e := echo.New()

	mockSvc := new(MockAuthService)
	mockSvc.On("Login", mock.Anything, "jane@example.com", "password123").
		Return(&service.LoginResult{Token: "tok", Name: "Jane Doe", NameTag: "JD"}, nil)

	h := NewAuthHandler(mockSvc)
	c, rec := postJSON(e, `{"email":"jane@example.com","password":"password123"}`)

	assert.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok","name":"Jane Doe","name_tag":"JD"}`, rec.Body.String())
	mockSvc.AssertExpectations(t)
}
