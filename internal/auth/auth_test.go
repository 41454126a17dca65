package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/campus-connect/internal/config"
	"github.com/johndosdos/campus-connect/internal/testutil"
)

func TestHashPassword(t *testing.T) {
	t.Run("unique hashes", func(t *testing.T) {
		pw := "password1234"
		hash, err := HashPassword(pw)
		if err != nil {
			t.Fatalf("password hash fail #1: %+v", err)
		}

		hash2, err := HashPassword(pw)
		if err != nil {
			t.Fatalf("password hash fail #2: %+v", err)
		}

		if hash == hash2 {
			t.Fatalf("hash and hash2 are the same hashes; should be different: %s, %s", hash, hash2)
		}
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := HashPassword("")
		if err != nil {
			t.Errorf("HashPassword() failed on empty string: %+v", err)
		}
	})
}

func TestCheckPasswordHash(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		checkPw   string
		hash      string
		wantErr   bool
		wantMatch bool
	}{
		{"correct pw", "mypassword1234", "mypassword1234", "", false, true},
		{"incorrect pw", "mypassword1234", "passwordDD1234", "", false, false},
		{"wrong hash", "mypassword1234", "passwordDD1234", "not-a-hash", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hash string
			var err error

			if tt.hash != "" {
				hash = tt.hash
			} else {
				hash, err = HashPassword(tt.password)
				if err != nil {
					t.Fatalf("%+v", err)
				}
			}

			isMatch, err := CheckPasswordHash(tt.checkPw, hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckPasswordHash() error = %+v", err)
			}
			if isMatch != tt.wantMatch {
				t.Errorf("password and hash don't match")
			}
		})
	}
}

func TestJWT(t *testing.T) {
	t.Run("Valid_JWT", func(t *testing.T) {
		userID := uuid.New()
		ti := NewTokenIssuer("validtokensecret", "campus-connect", 15*time.Second)
		tokenString, err := ti.MakeJWT(userID)
		if err != nil {
			t.Fatalf("MakeJWT() error = %+v", err)
		}
		gotUserID, err := ti.ValidateJWT(tokenString)
		if err != nil {
			t.Fatalf("ValidateJWT() error = %+v", err)
		}
		if gotUserID != userID {
			t.Errorf("want = %+v, got = %+v", userID, gotUserID)
		}
	})

	t.Run("Incorrect_secret", func(t *testing.T) {
		tokenString, err := MakeJWT(uuid.New(), "campus-connect", "validtokensecret", 15*time.Second)
		if err != nil {
			t.Fatalf("MakeJWT() error = %+v", err)
		}
		_, err = ValidateJWT(tokenString, "fakesecret")
		if err == nil {
			t.Fatal("ValidateJWT() expected error but got none")
		}
	})

	t.Run("Expired_token", func(t *testing.T) {
		tokenString, err := MakeJWT(uuid.New(), "campus-connect", "validtokensecret", -1*time.Second)
		if err != nil {
			t.Fatalf("MakeJWT() error = %+v", err)
		}
		_, err = ValidateJWT(tokenString, "validtokensecret")
		if err == nil {
			t.Fatal("ValidateJWT() expected error but got none")
		}
	})

	t.Run("Corrupt_token", func(t *testing.T) {
		_, err := ValidateJWT("corrupttoken", "validtokensecret")
		if err == nil {
			t.Fatal("ValidateJWT() expected error but got none")
		}
	})

	t.Run("Email_as_token_is_rejected", func(t *testing.T) {
		_, err := ValidateJWT("student1@srm.edu.in", "validtokensecret")
		if err == nil {
			t.Fatal("ValidateJWT() expected error but got none")
		}
	})
}

func TestGetUserFromContext(t *testing.T) {
	t.Run("is_valid_UUID", func(t *testing.T) {
		wantUserID := uuid.New()
		ctx := context.WithValue(context.Background(), UserIDKey, wantUserID)
		gotUserID, err := GetUserFromContext(ctx)
		if err != nil {
			t.Fatalf("GetUserFromContext(): expected userID but got error = %+v", err)
		}
		if gotUserID != wantUserID {
			t.Errorf("want %+v but got %+v", wantUserID, gotUserID)
		}
	})

	t.Run("invalid_UUID", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, "not-UUID")
		_, err := GetUserFromContext(ctx)
		if err == nil {
			t.Fatal("GetUserFromContext(): expected error but got none")
		}
	})

	t.Run("nil_UUID", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, uuid.Nil)
		_, err := GetUserFromContext(ctx)
		if err == nil {
			t.Fatal("GetUserFromContext(): expected error but got none")
		}
	})

	t.Run("no_context", func(t *testing.T) {
		_, err := GetUserFromContext(context.Background())
		if err == nil {
			t.Fatal("GetUserFromContext(): expected error but got none")
		}
	})
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryStore()
	dir := NewDirectory(store, "srm.edu.in")

	err := dir.Seed(ctx, []config.DemoUser{
		{Email: "student1@srm.edu.in", FullName: "Student One", Password: "password1"},
	})
	require.NoError(t, err)

	t.Run("login_ok", func(t *testing.T) {
		user, err := dir.Login(ctx, "student1@srm.edu.in", "password1")
		require.NoError(t, err)
		assert.Equal(t, "Student One", user.DisplayName())
	})

	t.Run("login_wrong_domain", func(t *testing.T) {
		_, err := dir.Login(ctx, "student1@gmail.com", "password1")
		assert.ErrorIs(t, err, ErrWrongDomain)
	})

	t.Run("login_wrong_password", func(t *testing.T) {
		_, err := dir.Login(ctx, "student1@srm.edu.in", "password2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login_unknown_user", func(t *testing.T) {
		_, err := dir.Login(ctx, "nobody@srm.edu.in", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("ensure_user_creates_once", func(t *testing.T) {
		first, err := dir.EnsureUser(ctx, "student3@SRM.edu.in", "Student Three")
		require.NoError(t, err)

		second, err := dir.EnsureUser(ctx, "student3@SRM.edu.in", "Ignored")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Student Three", second.FullName)

		// Google accounts cannot sign in with a password.
		_, err = dir.Login(ctx, "student3@SRM.edu.in", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("ensure_user_wrong_domain", func(t *testing.T) {
		_, err := dir.EnsureUser(ctx, "someone@example.com", "Someone")
		assert.ErrorIs(t, err, ErrWrongDomain)
	})

	t.Run("lookup", func(t *testing.T) {
		user, err := dir.Login(ctx, "student1@srm.edu.in", "password1")
		require.NoError(t, err)

		found, err := dir.Lookup(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, found)

		_, err = dir.Lookup(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("display_name_falls_back_to_email", func(t *testing.T) {
		assert.Equal(t, "x@srm.edu.in", User{Email: "x@srm.edu.in"}.DisplayName())
	})
}
