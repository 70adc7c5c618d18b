package handler

import (
	"net/http"
	"testing"

	"github.com/imprentacapital/imprenta-erp/internal/config"
	"github.com/imprentacapital/imprenta-erp/internal/middleware"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
	"github.com/imprentacapital/imprenta-erp/internal/shop/service"
	"github.com/imprentacapital/imprenta-erp/internal/shop/testutil"
)

func setupClientTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, config.ShopConfig{
		FrequentThreshold:   5,
		FrequentDiscountPct: 10,
	}, nil)
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/shop")
	api.POST("/clients", handlers.Client.Create)
	api.GET("/clients", handlers.Client.List)
	api.GET("/clients/:id", handlers.Client.Get)
	api.DELETE("/clients/:id", middleware.RequireRole(middleware.RoleAdmin), handlers.Client.Delete)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestClientCreateAndGet(t *testing.T) {
	env := setupClientTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"name":   "Imprenta El Sol",
		"tax_id": "1234567890",
		"phone":  "70000001",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/shop/clients", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	id := data["id"].(string)
	if data["name"] != "Imprenta El Sol" {
		t.Fatalf("unexpected name: %v", data["name"])
	}
	if data["is_frequent"] != false {
		t.Fatalf("new client must not be frequent: %v", data["is_frequent"])
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/shop/clients/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// missing client maps to 404
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/shop/clients/nope", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClientCreateValidation(t *testing.T) {
	env := setupClientTest(t)
	token := testutil.DefaultTestToken()

	// name is required
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/shop/clients", map[string]interface{}{
		"phone": "70000002",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// no token at all
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/shop/clients", map[string]interface{}{
		"name": "Sin token",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClientDeleteRequiresAdmin(t *testing.T) {
	env := setupClientTest(t)
	adminToken := testutil.DefaultTestToken()
	employeeToken := testutil.GenerateTestToken("test-user-002", "Test Employee", middleware.RoleEmployee)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/shop/clients", map[string]interface{}{
		"name": "Para borrar",
	}, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	id := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/shop/clients/"+id, nil, employeeToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/shop/clients/"+id, nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/shop/clients/"+id, nil, adminToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d: %s", w.Code, w.Body.String())
	}
}
