package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/studorg/marketplace/internal/pkg/auth"
	"github.com/studorg/marketplace/internal/server/http/handlers"
	testhelpers "github.com/studorg/marketplace/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := testhelpers.MarketFacadeStub{}

	strategy := pkgAuth.NewHMACStrategy("secret", pkgAuth.Options{})
	hasher := pkgAuth.NewBcryptHasher(4)
	adminKeyHash, err := hasher.Hash("admin-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	engine := Setup(facade, strategy, hasher, adminKeyHash, logger)

	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("user listing requires token", func(t *testing.T) {
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", resp.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp = httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 with token, got %d", resp.Code)
		}
	})

	t.Run("assigned listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/assigned", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	})

	t.Run("status update", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/1/status?status=PAID", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	})

	t.Run("admin endpoints require key", func(t *testing.T) {
		for _, path := range []string{"/api/orders/admin", "/api/orders/stats", "/api/orders/archived"} {
			resp := httptest.NewRecorder()
			engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 for %s without key, got %d", path, resp.Code)
			}

			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("X-Admin-Key", "admin-key")
			resp = httptest.NewRecorder()
			engine.ServeHTTP(resp, req)
			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200 for %s with key, got %d", path, resp.Code)
			}
		}
	})
}

var _ handlers.MarketFacade = (*testhelpers.MarketFacadeStub)(nil)
