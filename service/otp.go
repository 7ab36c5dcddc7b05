package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const otpTtl = otpExpirationMinutes * time.Minute

func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func secretMatches(hash string, secret string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// otpValid reports whether otp matches hash and has not expired at now.
func otpValid(hash string, expiresAt *time.Time, otp string, now time.Time) bool {
	if expiresAt == nil || !expiresAt.After(now) {
		return false
	}
	return secretMatches(hash, otp)
}
