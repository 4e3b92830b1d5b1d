package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestToken_RoundTrip(t *testing.T) {
	token, err := generateToken(testSecret, 42, time.Hour, time.Now())
	require.NoError(t, err)

	userID, err := parseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := generateToken(testSecret, 42, time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := generateToken(testSecret, 42, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	noUser, err := generateToken(testSecret, 0, time.Hour, time.Now())
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{UserID: 42}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"wrong secret", []byte("other"), valid},
		{"expired", testSecret, expired},
		{"missing user", testSecret, noUser},
		{"alg none", testSecret, none},
		{"garbage", testSecret, "not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseToken(tc.secret, tc.token)
			assert.ErrorIs(t, err, errInvalidToken)
		})
	}
}

// setupAuthTest mounts a single protected route that echoes the user_id.
func setupAuthTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{jwtSecret: testSecret}
	router := gin.New()
	router.GET("/api/whoami", h.authMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id")})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	router := setupAuthTest()
	token, err := generateToken(testSecret, 7, time.Hour, time.Now())
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
			}
		})
	}
}

func TestLogin_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{jwtSecret: testSecret}
	router := gin.New()
	router.POST("/api/login", h.login)

	for _, body := range []string{`{`, `{"username":"a"}`, `{}`} {
		w := doJSON(router, "POST", "/api/login", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}
