package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"
	"github.com/medifirst/medifirst-api/pkg/logger"
)

const (
	resetPath          = "/api/auth/reset-password/"
	defaultSendTimeout = 10 * time.Second
)

// PasswordResetConfig tunes the recovery flow.
type PasswordResetConfig struct {
	PublicURL   string        // base URL placed in reset links
	TokenTTL    time.Duration // defaults to domain.DefaultResetTokenTTL
	SendTimeout time.Duration // bound on a single notifier call
	BcryptCost  int
}

type passwordResetService struct {
	repo     ports.UserRepository
	notifier ports.Notifier
	throttle ports.ResetThrottle
	audit    ports.ResetAuditLog
	cfg      PasswordResetConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewPasswordResetService returns a PasswordResetService. throttle and audit
// may be nil.
func NewPasswordResetService(
	repo ports.UserRepository,
	notifier ports.Notifier,
	throttle ports.ResetThrottle,
	audit ports.ResetAuditLog,
	cfg PasswordResetConfig,
	log zerolog.Logger,
) ports.PasswordResetService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = domain.DefaultResetTokenTTL
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.BcryptCost < bcrypt.DefaultCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	return &passwordResetService{
		repo:     repo,
		notifier: notifier,
		throttle: throttle,
		audit:    audit,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// RequestReset issues a fresh token for the account behind email, replacing
// any pending one, and mails the plaintext link. Unknown and throttled
// addresses return nil so callers cannot tell them apart by response.
//
// Latency is not equalized: unknown addresses skip the token write and the
// notifier call, so they answer faster. The gap is bounded by SendTimeout and
// the throttle caps how often one address can be probed.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	log := logger.Ctx(ctx, s.log)
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ErrEmailRequired
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			log.Warn().Err(err).Msg("reset throttle check failed, continuing")
		} else if !allowed {
			log.Info().Msg("reset request throttled")
			return nil
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Debug().Msg("reset requested for unknown address")
			return nil
		}
		return fmt.Errorf("request reset: %w", err)
	}

	plaintext, token, err := domain.NewResetToken(s.now(), s.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("request reset: %w", err)
	}

	if err := s.repo.SetResetToken(ctx, user.ID, token); err != nil {
		return fmt.Errorf("request reset: store token: %w", err)
	}

	body, err := renderResetMail(resetMailData{
		FirstName: user.FirstName,
		ResetURL:  s.resetURL(plaintext),
		ExpiresIn: humanDuration(s.cfg.TokenTTL),
	})
	if err != nil {
		return fmt.Errorf("request reset: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, user.Email, resetMailSubject, body); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("reset mail dispatch failed")
		return fmt.Errorf("request reset: %w: %v", domain.ErrNotificationFailed, err)
	}

	s.recordEvent(ctx, &domain.ResetEvent{
		UserID:    user.ID,
		Kind:      domain.ResetIssued,
		Timestamp: s.now(),
		ExpiresAt: &token.ExpiresAt,
	})

	log.Info().Str("user_id", user.ID).Time("expires_at", token.ExpiresAt).Msg("reset token issued")
	return nil
}

// VerifyResetToken finds the account whose pending token matches and is
// unexpired. Wrong, used and expired tokens all yield ErrInvalidResetToken.
func (s *passwordResetService) VerifyResetToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}

	user, err := s.repo.FindByResetToken(ctx, domain.HashResetToken(token), s.now())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("verify reset token: %w", err)
	}
	return user, nil
}

// ResetPassword validates the new password, re-verifies the token and commits
// the new hash together with clearing the token. The write only lands if the
// token verified here is still the stored one.
func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.Ctx(ctx, s.log)
	if err := domain.CheckPassword(newPassword); err != nil {
		return err
	}

	user, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}

	if err := s.repo.ConsumeResetToken(ctx, user.ID, domain.HashResetToken(token), string(hash), s.now()); err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("reset password: %w", err)
	}

	s.recordEvent(ctx, &domain.ResetEvent{
		UserID:    user.ID,
		Kind:      domain.ResetCompleted,
		Timestamp: s.now(),
	})

	log.Info().Str("user_id", user.ID).Msg("password reset completed")
	return nil
}

// recordEvent writes to the audit trail. Failures are logged only.
func (s *passwordResetService) recordEvent(ctx context.Context, ev *domain.ResetEvent) {
	if s.audit == nil {
		return
	}
	log := logger.Ctx(ctx, s.log)
	if err := s.audit.InsertEvent(ctx, ev); err != nil {
		log.Warn().Err(err).Str("user_id", ev.UserID).Str("kind", string(ev.Kind)).Msg("failed to insert reset audit event")
	}
}

func (s *passwordResetService) resetURL(token string) string {
	return s.cfg.PublicURL + resetPath + url.PathEscape(token)
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
