package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"transfera/internal/domain"
)

var testSecret = []byte("test-secret")

func newAuthTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	chain := append([]gin.HandlerFunc{AuthRequired(testSecret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": CallerID(c),
			"role":   string(CallerRole(c)),
		})
	})
	router.GET("/protected", chain...)
	return router
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredValidToken(t *testing.T) {
	router := newAuthTestRouter()

	token, err := IssueToken(testSecret, "user-1", domain.RoleClient, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	w := doRequest(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestAuthRequiredRejections(t *testing.T) {
	router := newAuthTestRouter()

	expired, err := IssueToken(testSecret, "user-1", domain.RoleClient, -time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	wrongKey, err := IssueToken([]byte("other-secret"), "user-1", domain.RoleClient, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.authorization)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	router := newAuthTestRouter(RequireRoles(domain.RoleAdmin))

	adminToken, err := IssueToken(testSecret, "admin-1", domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	clientToken, err := IssueToken(testSecret, "client-1", domain.RoleClient, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if w := doRequest(router, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
	if w := doRequest(router, "Bearer "+clientToken); w.Code != http.StatusForbidden {
		t.Errorf("client status = %d, want 403", w.Code)
	}
}
