package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"outsite-backend/internal/auth"
	"outsite-backend/internal/models"

	"github.com/gin-gonic/gin"
)

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(AuthRequired())
	api.Use(Authorize())
	{
		ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"role": c.GetString("role")}) }
		api.GET("/products", ok)
		api.GET("/vehicles", ok)
		api.GET("/users", ok)
		api.PATCH("/sales-invoices/1/approval", RequireRole(models.RoleAdmin), ok)
	}
	return r
}

func requestAs(t *testing.T, r *gin.Engine, method, path, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, err := auth.GenerateToken(1, "tester", role)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredRejectsMissingCookie(t *testing.T) {
	auth.Init("test-secret")
	r := protectedRouter()

	if w := requestAs(t, r, http.MethodGet, "/api/products", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestAuthRequiredRejectsBadToken(t *testing.T) {
	auth.Init("test-secret")
	r := protectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestRolePrefixAllowlist(t *testing.T) {
	auth.Init("test-secret")
	r := protectedRouter()

	cases := []struct {
		role string
		path string
		want int
	}{
		{models.RoleAdmin, "/api/products", http.StatusOK},
		{models.RoleAdmin, "/api/users", http.StatusOK},
		{models.RoleWarehouse, "/api/products", http.StatusOK},
		{models.RoleWarehouse, "/api/vehicles", http.StatusForbidden},
		{models.RoleWarehouse, "/api/users", http.StatusForbidden},
		{models.RoleMaintenance, "/api/vehicles", http.StatusOK},
		{models.RoleMaintenance, "/api/products", http.StatusForbidden},
	}
	for _, tc := range cases {
		if w := requestAs(t, r, http.MethodGet, tc.path, tc.role); w.Code != tc.want {
			t.Fatalf("%s %s: got %d want %d", tc.role, tc.path, w.Code, tc.want)
		}
	}
}

func TestApprovalIsAdminOnly(t *testing.T) {
	auth.Init("test-secret")
	r := protectedRouter()

	// Warehouse may browse sales invoices but not approve them.
	if w := requestAs(t, r, http.MethodPatch, "/api/sales-invoices/1/approval", models.RoleWarehouse); w.Code != http.StatusForbidden {
		t.Fatalf("warehouse approval: expected 403 got %d", w.Code)
	}
	if w := requestAs(t, r, http.MethodPatch, "/api/sales-invoices/1/approval", models.RoleAdmin); w.Code != http.StatusOK {
		t.Fatalf("admin approval: expected 200 got %d", w.Code)
	}
}
