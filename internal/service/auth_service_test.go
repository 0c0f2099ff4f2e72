package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"canebill/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test_secret")

func TestRegisterAdminAndLogin(t *testing.T) {
	auth := NewAuthService(newFakeAdminRepo(), testSecret)

	if err := auth.RegisterAdmin(context.Background(), RegisterAdminRequest{Username: "admin", Password: "s3cret"}); err != nil {
		t.Fatalf("register admin: %v", err)
	}

	res, err := auth.Login(context.Background(), LoginAdminRequest{Username: "admin", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := jwt.Parse(res.Token, func(token *jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["username"] != "admin" {
		t.Errorf("username claim = %v, want admin", claims["username"])
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		t.Errorf("sub claim missing")
	}

	// Sessions run 20 days
	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	if got := time.Duration(exp-iat) * time.Second; got != 20*24*time.Hour {
		t.Errorf("token validity = %v, want 480h", got)
	}
}

func TestRegisterAdminDuplicate(t *testing.T) {
	auth := NewAuthService(newFakeAdminRepo(), testSecret)

	if err := auth.RegisterAdmin(context.Background(), RegisterAdminRequest{Username: "admin", Password: "s3cret"}); err != nil {
		t.Fatalf("register admin: %v", err)
	}
	err := auth.RegisterAdmin(context.Background(), RegisterAdminRequest{Username: "admin", Password: "other"})
	if apperror.StatusCode(err) != 409 {
		t.Errorf("expected conflict for duplicate username, got %v", err)
	}
}

func TestRegisterAdminValidation(t *testing.T) {
	auth := NewAuthService(newFakeAdminRepo(), testSecret)

	err := auth.RegisterAdmin(context.Background(), RegisterAdminRequest{})
	var verr *apperror.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Violations) != 2 {
		t.Errorf("violations = %v, want both username and password", verr.Violations)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := NewAuthService(newFakeAdminRepo(), testSecret)

	if err := auth.RegisterAdmin(context.Background(), RegisterAdminRequest{Username: "admin", Password: "s3cret"}); err != nil {
		t.Fatalf("register admin: %v", err)
	}

	cases := []struct {
		name string
		req  LoginAdminRequest
	}{
		{"wrong password", LoginAdminRequest{Username: "admin", Password: "nope"}},
		{"unknown user", LoginAdminRequest{Username: "ghost", Password: "s3cret"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Login(context.Background(), tc.req)
			if apperror.StatusCode(err) != 401 {
				t.Errorf("expected 401, got %v", err)
			}
		})
	}
}

func TestPasswordIsStoredHashed(t *testing.T) {
	repo := newFakeAdminRepo()
	auth := NewAuthService(repo, testSecret)

	if err := auth.RegisterAdmin(context.Background(), RegisterAdminRequest{Username: "admin", Password: "s3cret"}); err != nil {
		t.Fatalf("register admin: %v", err)
	}

	stored, err := repo.GetByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if stored.Password == "s3cret" {
		t.Errorf("password stored in plaintext")
	}
}
