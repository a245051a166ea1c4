package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"elasti/internal/auth"
	"elasti/internal/config"
)

func testRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", NewAuthMiddleware(cfg).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetUsername(c)})
	})
	return router
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAPIToken(t *testing.T) {
	cfg := &config.Config{APIToken: "static-token", JWTSecret: "secret"}
	router := testRouter(cfg)

	if w := request(router, "Bearer static-token"); w.Code != http.StatusOK {
		t.Errorf("API token rejected: %d %s", w.Code, w.Body.String())
	}
	if w := request(router, "Bearer wrong-token"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token accepted: %d", w.Code)
	}
}

func TestRequireAuthJWT(t *testing.T) {
	cfg := &config.Config{APIToken: "static-token", JWTSecret: "secret"}
	router := testRouter(cfg)

	token, err := auth.IssueToken("admin", "secret")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	w := request(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("valid JWT rejected: %d %s", w.Code, w.Body.String())
	}

	other, _ := auth.IssueToken("admin", "other-secret")
	if w := request(router, "Bearer "+other); w.Code != http.StatusUnauthorized {
		t.Errorf("JWT with wrong secret accepted: %d", w.Code)
	}
}

func TestRequireAuthMissingHeader(t *testing.T) {
	cfg := &config.Config{APIToken: "static-token", JWTSecret: "secret"}
	router := testRouter(cfg)

	if w := request(router, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing header accepted: %d", w.Code)
	}
	if w := request(router, "static-token"); w.Code != http.StatusUnauthorized {
		t.Errorf("token without Bearer prefix accepted: %d", w.Code)
	}
}
