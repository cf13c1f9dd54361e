package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/domain"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister_OK(t *testing.T) {
	ts := testServer{
		auth: &mockAuth{
			register: func(_ context.Context, name, email, password string) (domain.User, error) {
				assert.Equal(t, "Ada", name)
				assert.Equal(t, "ada@example.com", email)
				assert.Equal(t, "correct horse", password)
				return domain.User{ID: uuid.New(), Name: name, Email: email}, nil
			},
		},
	}

	rec := ts.do(t, jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"correct horse"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash", "hash must never serialize")
}

func TestRegister_ValidationError(t *testing.T) {
	ts := testServer{
		auth: &mockAuth{
			register: func(context.Context, string, string, string) (domain.User, error) {
				return domain.User{}, domain.ErrValidation
			},
		},
	}

	rec := ts.do(t, jsonRequest(http.MethodPost, "/api/auth/register", `{}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVerifyEmail_OK(t *testing.T) {
	ts := testServer{
		auth: &mockAuth{
			verify: func(_ context.Context, email, code string) error {
				assert.Equal(t, "ada@example.com", email)
				assert.Equal(t, "123456", code)
				return nil
			},
		},
	}

	rec := ts.do(t, jsonRequest(http.MethodPost, "/api/auth/verify",
		`{"email":"ada@example.com","code":"123456"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_OK(t *testing.T) {
	ts := testServer{
		auth: &mockAuth{
			login: func(context.Context, string, string) (string, domain.User, error) {
				return "signed.jwt.token", domain.User{ID: uuid.New(), Email: "ada@example.com"}, nil
			},
		},
	}

	rec := ts.do(t, jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"ada@example.com","password":"correct horse"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed.jwt.token", body.Token)
	assert.Equal(t, "ada@example.com", body.User.Email)
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := testServer{
		auth: &mockAuth{
			login: func(context.Context, string, string) (string, domain.User, error) {
				return "", domain.User{}, domain.ErrUnauthorized
			},
		},
	}

	rec := ts.do(t, jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"ada@example.com","password":"wrong"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_OK(t *testing.T) {
	userID := uuid.New()
	ts := testServer{
		auth: &mockAuth{
			me: func(_ context.Context, id uuid.UUID) (domain.User, error) {
				assert.Equal(t, userID, id)
				return domain.User{ID: id, Email: "ada@example.com"}, nil
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", bearerToken(t, userID))
	rec := ts.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")
}

func TestMe_NoToken(t *testing.T) {
	ts := testServer{auth: &mockAuth{}}

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
