package application

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func plainHash(password string) (string, error) { return "hashed:" + password, nil }

func plainVerify(hashed, password string) error {
	if hashed != "hashed:"+password {
		return ErrInvalidCredentials
	}
	return nil
}

func newTestAccountService(store *accountStore, tokens *tokenIssuerStub) *AccountService {
	return NewAccountService(store, tokens, plainHash, plainVerify, sequentialIDs("user"), fixedNow())
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores account and issues a token", func(t *testing.T) {
		store := newAccountStore()
		tokens := &tokenIssuerStub{}
		svc := newTestAccountService(store, tokens)

		result := svc.Register(ctx, RegisterParams{UserName: " Anna ", Email: "Anna@Example.com ", Password: "secret1"})
		if result.Kind != KindOk {
			t.Fatalf("expected Ok, got %s %v", result.Kind, result.Errors)
		}
		if result.Data.Token != "token-user-1" || result.Data.Email != "anna@example.com" || result.Data.UserName != "Anna" {
			t.Fatalf("unexpected token: %+v", result.Data)
		}
		stored := store.accounts["anna@example.com"]
		if stored.PasswordHash != "hashed:secret1" {
			t.Fatalf("unexpected hash %q", stored.PasswordHash)
		}
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		store := newAccountStore()
		svc := newTestAccountService(store, &tokenIssuerStub{})
		svc.Register(ctx, RegisterParams{UserName: "Anna", Email: "anna@example.com", Password: "secret1"})

		result := svc.Register(ctx, RegisterParams{UserName: "Other", Email: "ANNA@example.com", Password: "secret2"})
		if result.Kind != KindBadRequest || result.Errors[0] != "user with this email already exists" {
			t.Fatalf("expected duplicate rejection, got %s %v", result.Kind, result.Errors)
		}
	})

	t.Run("maps a racing duplicate insert", func(t *testing.T) {
		store := newAccountStore()
		store.createErr = ErrAlreadyExists
		svc := newTestAccountService(store, &tokenIssuerStub{})
		result := svc.Register(ctx, RegisterParams{UserName: "Anna", Email: "anna@example.com", Password: "secret1"})
		if result.Kind != KindBadRequest || result.Errors[0] != "user with this email already exists" {
			t.Fatalf("expected duplicate rejection, got %s %v", result.Kind, result.Errors)
		}
	})

	t.Run("validates input", func(t *testing.T) {
		svc := newTestAccountService(newAccountStore(), &tokenIssuerStub{})
		result := svc.Register(ctx, RegisterParams{UserName: " ", Email: "not-an-email", Password: "12345"})
		if result.Kind != KindBadRequest || len(result.Errors) != 3 {
			t.Fatalf("expected three messages, got %s %v", result.Kind, result.Errors)
		}
		if !strings.Contains(result.Errors[2], "at least 6") {
			t.Fatalf("unexpected password message: %v", result.Errors)
		}
	})

	t.Run("token failure", func(t *testing.T) {
		svc := newTestAccountService(newAccountStore(), &tokenIssuerStub{err: errors.New("no key")})
		if result := svc.Register(ctx, RegisterParams{UserName: "Anna", Email: "anna@example.com", Password: "secret1"}); result.Kind != KindBadRequest {
			t.Fatalf("expected BadRequest, got %s", result.Kind)
		}
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	store := newAccountStore()
	svc := newTestAccountService(store, &tokenIssuerStub{})
	if r := svc.Register(ctx, RegisterParams{UserName: "Anna", Email: "anna@example.com", Password: "secret1"}); r.Kind != KindOk {
		t.Fatalf("register failed: %v", r.Errors)
	}
	if err := svc.GrantReceptionist(ctx, "Anna@example.com"); err != nil {
		t.Fatalf("GrantReceptionist failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		result := svc.Login(ctx, LoginParams{Email: "ANNA@example.com", Password: "secret1"})
		if result.Kind != KindOk || !result.Data.IsReceptionist {
			t.Fatalf("expected receptionist token, got %s %+v", result.Kind, result.Data)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		result := svc.Login(ctx, LoginParams{Email: "bob@example.com", Password: "secret1"})
		if result.Kind != KindBadRequest || result.Errors[0] != "wrong email" {
			t.Fatalf("unexpected result: %s %v", result.Kind, result.Errors)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		result := svc.Login(ctx, LoginParams{Email: "anna@example.com", Password: "nope"})
		if result.Kind != KindForbidden || result.Errors[0] != "wrong password" {
			t.Fatalf("unexpected result: %s %v", result.Kind, result.Errors)
		}
	})
}

func TestAccountService_Receptionist(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty email", func(t *testing.T) {
		svc := newTestAccountService(newAccountStore(), &tokenIssuerStub{})
		var vErr *ValidationError
		if err := svc.GrantReceptionist(ctx, "  "); !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("wraps store errors", func(t *testing.T) {
		store := newAccountStore()
		store.roleErr = errors.New("offline")
		svc := newTestAccountService(store, &tokenIssuerStub{})
		if _, err := svc.IsReceptionist(ctx, "anna@example.com"); !errors.Is(err, store.roleErr) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	params := Argon2idParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}
	hashed, err := HashPasswordWithParams("correct horse", params)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hashed, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", hashed)
	}

	if err := VerifyPassword(hashed, "correct horse"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := VerifyPassword(hashed, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	other, _ := HashPasswordWithParams("correct horse", params)
	if other == hashed {
		t.Fatal("expected a fresh salt per hash")
	}

	for _, broken := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA"} {
		if err := VerifyPassword(broken, "x"); err == nil || errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected format error for %q, got %v", broken, err)
		}
	}
}
