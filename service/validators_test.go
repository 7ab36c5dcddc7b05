package service

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/exception"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := normalizeEmail("  John.Doe@Example.COM ")
	if err != nil || got != "john.doe@example.com" {
		t.Errorf("normalizeEmail() = %q, %v", got, err)
	}
	if _, err := normalizeEmail("not-an-email"); statusOf(err) != http.StatusBadRequest {
		t.Errorf("normalizeEmail(invalid) error = %v, want 400", err)
	}
	if _, err := normalizeEmail(""); statusOf(err) != http.StatusBadRequest {
		t.Errorf("normalizeEmail(empty) error = %v, want 400", err)
	}
}

func TestNormalizeName(t *testing.T) {
	if got, err := normalizeName("  Ann "); err != nil || got != "Ann" {
		t.Errorf("normalizeName() = %q, %v", got, err)
	}
	if _, err := normalizeName("A"); err == nil {
		t.Error("normalizeName(short) error = nil")
	}
	if _, err := normalizeName(strings.Repeat("я", 51)); err == nil {
		t.Error("normalizeName(long) error = nil")
	}
	if _, err := normalizeName(strings.Repeat("я", 50)); err != nil {
		t.Errorf("normalizeName(50 runes) error = %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{"Passw0rd!", "Abcdef1#"}
	for _, p := range valid {
		if err := validatePassword(p); err != nil {
			t.Errorf("validatePassword(%q) error = %v", p, err)
		}
	}
	weak := []string{"password1!", "PASSWORD1!", "Password!!", "Password12"}
	for _, p := range weak {
		err := validatePassword(p)
		customErr, ok := err.(*exception.CustomError)
		if !ok || customErr.Code != exception.WeakPassword {
			t.Errorf("validatePassword(%q) error = %v, want weak password", p, err)
		}
	}
	if err := validatePassword("Ab1!"); err == nil {
		t.Error("validatePassword(too short) error = nil")
	}
}

func TestValidateOtp(t *testing.T) {
	if err := validateOtp("0123"); err != nil {
		t.Errorf("validateOtp() error = %v", err)
	}
	for _, otp := range []string{"", "123", "12345", "12a4"} {
		if err := validateOtp(otp); statusOf(err) != http.StatusBadRequest {
			t.Errorf("validateOtp(%q) error = %v, want 400", otp, err)
		}
	}
}

func TestOtp(t *testing.T) {
	otp, err := generateOtp()
	if err != nil {
		t.Fatalf("generateOtp() error = %v", err)
	}
	if err := validateOtp(otp); err != nil {
		t.Fatalf("generated otp %q is invalid: %v", otp, err)
	}
	hash, err := hashSecret(otp)
	if err != nil {
		t.Fatalf("hashSecret() error = %v", err)
	}

	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)
	if !otpValid(hash, &future, otp, now) {
		t.Error("otpValid() = false for a fresh otp")
	}
	if otpValid(hash, &past, otp, now) {
		t.Error("otpValid() = true for an expired otp")
	}
	if otpValid(hash, nil, otp, now) {
		t.Error("otpValid() = true without expiration")
	}
	if secretMatches("", otp) {
		t.Error("secretMatches() = true for an empty hash")
	}
}

func TestRenderEmail(t *testing.T) {
	msg, err := RenderEmail(EmailPasswordReset, "ann@example.com", "Ann <script>", "4821")
	if err != nil {
		t.Fatalf("RenderEmail() error = %v", err)
	}
	if msg.To != "ann@example.com" || msg.Subject == "" {
		t.Errorf("RenderEmail() = %+v", msg)
	}
	if !strings.Contains(msg.TextBody, "4821") || !strings.Contains(msg.HtmlBody, "4821") {
		t.Error("otp is missing from the email")
	}
	if strings.Contains(msg.HtmlBody, "<script>") {
		t.Error("name is not escaped in the html body")
	}
	if _, err := RenderEmail("unknown", "a@b.c", "A", ""); err == nil {
		t.Error("RenderEmail(unknown) error = nil")
	}
}
