package util

import (
	"bookhive_backend/internal/model"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "host@example.com", Role: model.Host}
	user.ID = "user-1"

	token, err := GenerateJWT(user, "0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseJWT(token, "0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "user-1" || claims.Role != model.Host || claims.Email != "host@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "a@b.c", Role: model.Guest}
	user.ID = "u"

	token, err := GenerateJWT(user, "secret-one-secret-one-secret-one", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJWT(token, "secret-two-secret-two-secret-two"); err == nil {
		t.Error("token signed with different secret must not parse")
	}
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{}
	user.ID = "u"

	token, err := GenerateJWT(user, "0123456789abcdef0123456789abcdef", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJWT(token, "0123456789abcdef0123456789abcdef"); err == nil {
		t.Error("expired token must not parse")
	}
}
