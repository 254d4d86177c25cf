package security_test

import (
	"strings"
	"testing"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/security"
)

func testOTPConfig() config.OTPConfig {
	return config.OTPConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyCode(t *testing.T) {
	hash, err := security.HashCode("482913", testOTPConfig())
	if err != nil {
		t.Fatalf("HashCode returned error: %v", err)
	}
	if strings.Contains(hash, "482913") {
		t.Fatal("hash must not contain the clear code")
	}

	ok, err := security.VerifyCode("482913", hash)
	if err != nil {
		t.Fatalf("VerifyCode returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyCode failed for the correct code")
	}

	ok, err = security.VerifyCode("482914", hash)
	if err != nil {
		t.Fatalf("VerifyCode returned error for wrong code: %v", err)
	}
	if ok {
		t.Fatal("VerifyCode returned true for incorrect code")
	}
}

func TestHashCodeUsesFreshSalt(t *testing.T) {
	a, err := security.HashCode("111111", testOTPConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := security.HashCode("111111", testOTPConfig())
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("expected distinct hashes for the same code")
	}
}

func TestVerifyCodeRejectsMalformedHash(t *testing.T) {
	if _, err := security.VerifyCode("123456", "not-a-hash"); err != security.ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestHashCodeRejectsEmpty(t *testing.T) {
	if _, err := security.HashCode("", testOTPConfig()); err == nil {
		t.Fatal("expected error for empty code")
	}
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := security.GenerateNumericCode(6)
	if err != nil {
		t.Fatalf("GenerateNumericCode returned error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit in code %q", code)
		}
	}
	if _, err := security.GenerateNumericCode(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestVerifyCodeRejectsForeignParameters(t *testing.T) {
	for _, encoded := range []string{
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=16$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$$a2V5a2V5",
	} {
		if _, err := security.VerifyCode("123456", encoded); err != security.ErrInvalidHash {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}
