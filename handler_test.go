package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doJSON sends a request with an optional JSON body.
func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// setupRouterTest registers every route behind a real token but with no DB
// pool. Only requests rejected before the first query are safe to send.
func setupRouterTest(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := &Handler{
		jwtSecret: testSecret,
		tokenTTL:  time.Hour,
		now:       func() time.Time { return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC) },
	}
	router := gin.New()
	h.registerRoutes(router)

	token, err := generateToken(testSecret, 1, time.Hour, time.Now())
	require.NoError(t, err)
	return router, token
}

func doAuthed(router *gin.Engine, token, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutes_RequireAuth(t *testing.T) {
	router, _ := setupRouterTest(t)

	for _, path := range []string{
		"/api/catalog", "/api/meals", "/api/food-log/daily", "/api/food-log/month",
		"/api/settings/goals", "/api/settings/profile", "/api/settings/preferences",
	} {
		w := doJSON(router, "GET", path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

// TestRoutes_RejectBeforeQuery covers validation that must answer without
// touching the database.
func TestRoutes_RejectBeforeQuery(t *testing.T) {
	router, token := setupRouterTest(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"daily bad date", "GET", "/api/food-log/daily?date=10/15/2026", "", http.StatusBadRequest},
		{"month bad month", "GET", "/api/food-log/month?month=2026-13", "", http.StatusBadRequest},

		{"catalog get bad id", "GET", "/api/catalog/not-a-uuid", "", http.StatusNotFound},
		{"catalog delete bad id", "DELETE", "/api/catalog/123", "", http.StatusNotFound},
		{"catalog create malformed", "POST", "/api/catalog", `{`, http.StatusBadRequest},
		{"catalog create no name", "POST", "/api/catalog", `{"calories":100}`, http.StatusBadRequest},
		{"catalog create blank name", "POST", "/api/catalog", `{"name":"  ","calories":100}`, http.StatusBadRequest},
		{"catalog create zero calories", "POST", "/api/catalog", `{"name":"Egg","calories":0}`, http.StatusBadRequest},
		{"catalog create negative protein", "POST", "/api/catalog", `{"name":"Egg","calories":70,"protein":-1}`, http.StatusBadRequest},
		{"catalog create negative sodium", "POST", "/api/catalog", `{"name":"Egg","calories":70,"sodium":-5}`, http.StatusBadRequest},

		{"meal create no name", "POST", "/api/meals", `{"foods":[]}`, http.StatusBadRequest},
		{"meal create bad food id", "POST", "/api/meals", `{"name":"Lunch","foods":[{"food_catalog_id":"x","quantity":1}]}`, http.StatusBadRequest},
		{"meal create zero quantity", "POST", "/api/meals",
			`{"name":"Lunch","foods":[{"food_catalog_id":"6f1c2a4e-8a7b-4c39-9a51-0d6a3e0b2f11","quantity":0}]}`, http.StatusBadRequest},
		{"meal get bad id", "GET", "/api/meals/nope", "", http.StatusNotFound},

		{"log no type", "POST", "/api/food-log/items", `{"meal_id":"m"}`, http.StatusBadRequest},
		{"log unknown type", "POST", "/api/food-log/items", `{"type":"snack","food_catalog_id":"f","quantity":1}`, http.StatusBadRequest},
		{"log individual no quantity", "POST", "/api/food-log/items", `{"type":"individual","food_catalog_id":"f"}`, http.StatusBadRequest},
		{"log individual negative quantity", "POST", "/api/food-log/items", `{"type":"individual","food_catalog_id":"f","quantity":-1}`, http.StatusBadRequest},
		{"log both references", "POST", "/api/food-log/items", `{"type":"meal","meal_id":"m","food_catalog_id":"f"}`, http.StatusBadRequest},
		{"log bad date", "POST", "/api/food-log/items", `{"type":"meal","meal_id":"m","date":"yesterday"}`, http.StatusBadRequest},
		{"log delete bad id", "DELETE", "/api/food-log/items/abc", "", http.StatusNotFound},

		{"goals zero calories", "PUT", "/api/settings/goals", `{"daily_calories":0}`, http.StatusBadRequest},
		{"profile bad sex", "PUT", "/api/settings/profile", `{"sex":"robot"}`, http.StatusBadRequest},
		{"profile bad units", "PUT", "/api/settings/profile", `{"units":"stone","weight":10}`, http.StatusBadRequest},
		{"profile empty", "PUT", "/api/settings/profile", `{}`, http.StatusBadRequest},
		{"preferences bad theme", "PUT", "/api/settings/preferences", `{"theme":"neon"}`, http.StatusBadRequest},
		{"preferences empty", "PUT", "/api/settings/preferences", `{}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doAuthed(router, token, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestCatalogOrderBy(t *testing.T) {
	assert.Equal(t, "lower(name) ASC, id ASC", catalogOrderBy("", ""))
	assert.Equal(t, "calories DESC, id ASC", catalogOrderBy("calories", "DESC"))
	assert.Equal(t, "protein ASC, id ASC", catalogOrderBy("protein", "sideways"))
	// Anything outside the whitelist never reaches SQL.
	assert.Equal(t, "lower(name) DESC, id ASC", catalogOrderBy("name; DROP TABLE food_catalog", "desc"))
}
