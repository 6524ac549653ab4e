package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/services"
)

type fakeAuthService struct {
	claims *services.AccessClaims
	err    error
}

func (f *fakeAuthService) Register(ctx context.Context, in services.RegisterInput) (*types.User, *services.TokenPair, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*types.User, *services.TokenPair, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakeAuthService) ParseAccessToken(token string) (*services.AccessClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func newAuthTestRouter(t *testing.T, auth services.AuthService, roles ...types.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	am := NewAuthMiddleware(log, auth)

	router := gin.New()
	group := router.Group("/", am.RequireAuth())
	if len(roles) > 0 {
		group.Use(am.RequireRole(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id.String()})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	auth := &fakeAuthService{claims: &services.AccessClaims{UserID: userID, Role: types.RoleCustomer}}
	router := newAuthTestRouter(t, auth)

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(router, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := doRequest(router, "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid bearer token", func(t *testing.T) {
		rec := doRequest(router, "Bearer good-token")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		badRouter := newAuthTestRouter(t, &fakeAuthService{err: errors.New("token expired")})
		rec := doRequest(badRouter, "Bearer stale")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	customer := &fakeAuthService{claims: &services.AccessClaims{UserID: uuid.New(), Role: types.RoleCustomer}}
	agent := &fakeAuthService{claims: &services.AccessClaims{UserID: uuid.New(), Role: types.RoleAgent}}

	t.Run("customer blocked from staff route", func(t *testing.T) {
		router := newAuthTestRouter(t, customer, types.RoleAgent, types.RoleAdmin)
		rec := doRequest(router, "Bearer tok")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("agent allowed", func(t *testing.T) {
		router := newAuthTestRouter(t, agent, types.RoleAgent, types.RoleAdmin)
		rec := doRequest(router, "Bearer tok")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}
