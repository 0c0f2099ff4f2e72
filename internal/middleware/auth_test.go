package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test_secret")

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAdmin(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"adminID": c.GetString("adminID")})
	})
	return router
}

func signToken(t *testing.T, secret []byte, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "a6f1f3bd-2e90-4ce3-96a5-96a77e7f6a01",
		"username": "admin",
		"iat":      time.Now().Unix(),
		"exp":      exp.Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireAdmin(t *testing.T) {
	router := setupAuthRouter()

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusBadRequest},
		{"bare token", "justonetoken", http.StatusBadRequest},
		{"garbage token", "Bearer not.a.jwt", http.StatusBadRequest},
		{"wrong secret", "Bearer " + signToken(t, []byte("other_secret"), time.Now().Add(time.Hour)), http.StatusBadRequest},
		{"expired token", "Bearer " + signToken(t, testSecret, time.Now().Add(-time.Hour)), http.StatusBadRequest},
		{"valid token", "Bearer " + signToken(t, testSecret, time.Now().Add(time.Hour)), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireAdminSetsIdentity(t *testing.T) {
	router := setupAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	want := `"adminID":"a6f1f3bd-2e90-4ce3-96a5-96a77e7f6a01"`
	if body := w.Body.String(); !strings.Contains(body, want) {
		t.Errorf("body %s does not carry the admin id", body)
	}
}
