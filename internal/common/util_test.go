package common

import (
	"errors"
	"strings"
	"testing"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- GenerateRandByteArray ----------

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const n = 24
	buf := GenerateRandByteArray(n)
	if buf == nil {
		t.Fatalf("expected non-nil slice")
	}
	if len(buf) != n {
		t.Fatalf("expected length %d, got %d", n, len(buf))
	}
}

func TestGenerateRandByteArray_EntropyHint(t *testing.T) {
	const n = 32
	a := GenerateRandByteArray(n)
	b := GenerateRandByteArray(n)

	if len(a) != n || len(b) != n {
		t.Fatalf("unexpected lengths: %d, %d", len(a), len(b))
	}

	identical := true
	for i := range a {
		if a[i] != b[i] {
			identical = false
			break
		}
	}
	if identical {
		t.Logf("warning: two GenerateRandByteArray(%d) results are identical; extremely unlikely", n)
	}
}

// ---------- GeneratePassword ----------

func TestGeneratePassword_LengthAndAlphabet(t *testing.T) {
	p, err := GeneratePassword(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p) != 12 {
		t.Fatalf("expected length 12, got %d", len(p))
	}
	for _, r := range p {
		if !strings.ContainsRune(PasswordAlphabet, r) {
			t.Fatalf("character %q is outside the alphabet", r)
		}
	}
}

func TestGeneratePassword_Zero(t *testing.T) {
	p, err := GeneratePassword(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "" {
		t.Fatalf("expected empty password, got %q", p)
	}
}

func TestInvalidCaptchaAnswer_IsInvalidInput(t *testing.T) {
	if !errors.Is(ErrorInvalidCaptchaAnswer, ErrorInvalidInput) {
		t.Fatalf("expected ErrorInvalidCaptchaAnswer to wrap ErrorInvalidInput")
	}
	if errors.Is(ErrorIncorrectCaptcha, ErrorInvalidInput) {
		t.Fatalf("wrong sum must not be reported as invalid input")
	}
}
