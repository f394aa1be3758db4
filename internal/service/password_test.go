package service

import "testing"

func TestHashPassword_SaltedDigestsDiffer(t *testing.T) {
	first, err := HashPassword("Secr3t!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("Secr3t!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected salted digests to differ")
	}
	if !VerifyPassword("Secr3t!", first) {
		t.Fatalf("expected first digest to verify")
	}
	if !VerifyPassword("Secr3t!", second) {
		t.Fatalf("expected second digest to verify")
	}
}

func TestVerifyPassword_RejectsWrongPassword(t *testing.T) {
	digest, err := HashPassword("Secr3t!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if VerifyPassword("wrong", digest) {
		t.Fatalf("expected wrong password to be rejected")
	}
}

func TestVerifyPassword_MalformedDigestReturnsFalse(t *testing.T) {
	if VerifyPassword("Secr3t!", "not-a-bcrypt-digest") {
		t.Fatalf("expected malformed digest to verify false")
	}
	if VerifyPassword("Secr3t!", "") {
		t.Fatalf("expected empty digest to verify false")
	}
}
