package tests

import (
	"strings"
	"testing"

	crypt "github.com/book2resell/server/internal/server/crypto"
)

func argonParams() crypt.PasswordParams {
	return crypt.PasswordParams{
		Hasher: crypt.HasherArgon2id,
		Argon2: crypt.Argon2Params{
			Time:      1,
			MemoryKiB: 32 * 1024,
			Threads:   1,
			KeyLen:    32,
			SaltLen:   16,
		},
	}
}

// Хэширование и успешная проверка (argon2id)
func TestHashAndVerifyPassword_Argon2_OK(t *testing.T) {
	params := argonParams()
	password := "super-secret-password"

	hash, err := crypt.HashPassword(password, params)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := crypt.VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}

	if !ok {
		t.Fatal("expected password to be valid")
	}
}

// Хэширование и успешная проверка (bcrypt)
func TestHashAndVerifyPassword_Bcrypt_OK(t *testing.T) {
	params := crypt.PasswordParams{Hasher: crypt.HasherBcrypt, BcryptCost: 4}
	password := "super-secret-password"

	hash, err := crypt.HashPassword(password, params)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := crypt.VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}

	if !ok {
		t.Fatal("expected password to be valid")
	}
}

// Неверный пароль
func TestVerifyPassword_InvalidPassword(t *testing.T) {
	for _, params := range []crypt.PasswordParams{
		argonParams(),
		{Hasher: crypt.HasherBcrypt, BcryptCost: 4},
	} {
		hash, err := crypt.HashPassword("correct-password", params)
		if err != nil {
			t.Fatalf("HashPassword error: %v", err)
		}

		ok, err := crypt.VerifyPassword("wrong-password", hash)
		if err != nil {
			t.Fatalf("VerifyPassword error: %v", err)
		}

		if ok {
			t.Fatalf("hasher %s: expected password to be invalid", params.Hasher)
		}
	}
}

// Пустой пароль
func TestHashPassword_EmptyPassword(t *testing.T) {
	_, err := crypt.HashPassword("", argonParams())
	if err == nil {
		t.Fatal("expected error for empty password")
	}
}

// Неизвестный хэшер
func TestHashPassword_UnknownHasher(t *testing.T) {
	_, err := crypt.HashPassword("password", crypt.PasswordParams{Hasher: "md5"})
	if err == nil {
		t.Fatal("expected error for unknown hasher")
	}
}

// Битый формат хэша
func TestVerifyPassword_InvalidFormat(t *testing.T) {
	ok, err := crypt.VerifyPassword("password", "not-a-valid-hash")
	if err == nil {
		t.Fatal("expected error for invalid hash format")
	}
	if ok {
		t.Fatal("expected ok=false for invalid hash format")
	}
}

// Проверка: соль разная (хэши разные)
func TestHashPassword_DifferentSalt(t *testing.T) {
	params := argonParams()
	password := "same-password"

	h1, _ := crypt.HashPassword(password, params)
	h2, _ := crypt.HashPassword(password, params)

	if h1 == h2 {
		t.Fatal("expected different hashes for same password")
	}
}
