package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/pkg/password"
)

// OTP errors
var (
	ErrOTPInvalid     = errors.New("invalid or expired OTP")
	ErrOTPMaxAttempts = errors.New("too many OTP attempts, request a new code")
	ErrOTPNotVerified = errors.New("OTP not verified")
)

const (
	otpTTL         = 10 * time.Minute
	otpMaxAttempts = 5
)

type otpEntry struct {
	code      string
	userID    uint
	expiresAt time.Time
	attempts  int
	verified  bool
}

// OTPService runs the forgot-password flow against an in-process keyed
// store. Entries are keyed by email, expire after otpTTL and die after
// otpMaxAttempts failed checks.
type OTPService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	mailer           *NotificationService
	clock            Clock

	mu      sync.RWMutex
	entries map[string]*otpEntry
}

// NewOTPService creates a new OTP service
func NewOTPService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	mailer *NotificationService,
	clock Clock,
) *OTPService {
	return &OTPService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		mailer:           mailer,
		clock:            clock,
		entries:          make(map[string]*otpEntry),
	}
}

// RequestReset issues an OTP for the account behind the email. Always
// succeeds from the caller's perspective so account existence cannot be
// probed.
func (s *OTPService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// same outward behavior for unknown accounts
		log.Printf("OTP requested for unknown email")
		return nil
	}

	code, err := password.GenerateOTP()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[email] = &otpEntry{
		code:      code,
		userID:    user.ID,
		expiresAt: s.clock.Now().Add(otpTTL),
	}
	s.mu.Unlock()

	if s.mailer != nil {
		s.mailer.SendMail(email, "Password reset code",
			"Your password reset code is "+code+". It expires in 10 minutes.")
	}
	log.Printf("✅ OTP issued for user %d", user.ID)
	return nil
}

// Verify checks a submitted code. A verified entry may then be used
// once by ResetPassword.
func (s *OTPService) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return ErrOTPInvalid
	}
	if s.clock.Now().After(entry.expiresAt) {
		delete(s.entries, email)
		return ErrOTPInvalid
	}
	if entry.attempts >= otpMaxAttempts {
		delete(s.entries, email)
		return ErrOTPMaxAttempts
	}
	if entry.code != code {
		entry.attempts++
		if entry.attempts >= otpMaxAttempts {
			delete(s.entries, email)
			return ErrOTPMaxAttempts
		}
		return ErrOTPInvalid
	}
	entry.verified = true
	return nil
}

// ResetPassword sets a new password for a verified entry and revokes
// all sessions. The entry is consumed whatever the outcome.
func (s *OTPService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	s.mu.Lock()
	entry, ok := s.entries[email]
	if !ok || !entry.verified || entry.code != code || s.clock.Now().After(entry.expiresAt) {
		s.mu.Unlock()
		return ErrOTPNotVerified
	}
	delete(s.entries, email)
	s.mu.Unlock()

	if !password.ValidatePassword(newPassword) {
		return ErrWeakPassword
	}

	user, err := s.userRepo.GetByID(ctx, entry.userID)
	if err != nil {
		return ErrUserNotFound
	}
	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
		log.Printf("❌ Failed to revoke sessions after password reset for user %d: %v", user.ID, err)
	}
	log.Printf("✅ Password reset for user %d", user.ID)
	return nil
}

// PurgeExpired drops stale entries; called from the cron loop.
func (s *OTPService) PurgeExpired() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, email)
		}
	}
}
