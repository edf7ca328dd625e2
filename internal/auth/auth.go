// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/time/rate"
)

// Sentinel errors for the login flow.
var (
	ErrEmptyPhone      = errors.New("phone number is required")
	ErrInvalidPhone    = errors.New("phone number must be 7-10 digits")
	ErrInvalidOTP      = errors.New("invalid verification code")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// Phone number length bounds, digits only.
const (
	MinPhoneDigits = 7
	MaxPhoneDigits = 10
)

// SentinelCode is always accepted, so the demo flow never dead-ends.
const SentinelCode = "111111"

// verifyRate allows one attempt per second with a small burst. Enough for
// a human retyping a code, not for guessing one.
var verifyLimit = rate.Limit(1)

const verifyBurst = 5

// scryptSalt fixes the secret derivation so the same phone number always
// yields the same TOTP secret across runs.
var scryptSalt = []byte("gemini-tui-otp-v1")

// =============================================================================
// PHONE VALIDATION
// =============================================================================

// ValidatePhone checks a phone number the way the login form does: it must
// be present, all digits, and between 7 and 10 digits long.
func ValidatePhone(phone string) error {
	if phone == "" {
		return ErrEmptyPhone
	}
	if len(phone) < MinPhoneDigits || len(phone) > MaxPhoneDigits {
		return ErrInvalidPhone
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return ErrInvalidPhone
		}
	}
	return nil
}

// =============================================================================
// VERIFIER
// =============================================================================

// Verifier issues and checks one-time codes for a phone number.
type Verifier struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewVerifier creates a verifier with the default attempt limit.
func NewVerifier() *Verifier {
	return &Verifier{
		limiter: rate.NewLimiter(verifyLimit, verifyBurst),
		now:     time.Now,
	}
}

// SendCode derives the current one-time code for phone. The caller
// surfaces it through a notification, standing in for SMS delivery.
func (v *Verifier) SendCode(callingCode, phone string) (string, error) {
	if err := ValidatePhone(phone); err != nil {
		return "", err
	}
	secret, err := deriveSecret(callingCode + phone)
	if err != nil {
		return "", fmt.Errorf("failed to derive code: %w", err)
	}
	return totp.GenerateCode(secret, v.now())
}

// Verify checks a submitted code. The sentinel code is always accepted;
// otherwise the code must match the current TOTP window for the number.
// Attempts are rate limited.
func (v *Verifier) Verify(callingCode, phone, code string) error {
	if !v.limiter.Allow() {
		return ErrTooManyAttempts
	}
	if code == SentinelCode {
		return nil
	}
	secret, err := deriveSecret(callingCode + phone)
	if err != nil {
		return fmt.Errorf("failed to derive code: %w", err)
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidOTP
	}
	return nil
}

// deriveSecret stretches the full phone number into a base32 TOTP secret.
func deriveSecret(number string) (string, error) {
	key, err := scrypt.Key([]byte(number), scryptSalt, 1<<15, 8, 1, 20)
	if err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(key), nil
}
