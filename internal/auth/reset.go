package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ResetNotifier delivers a password reset token to the account owner
type ResetNotifier interface {
	DeliverResetToken(ctx context.Context, email, token string, expiresAt time.Time) error
}

// ResetNotifierFunc adapts a function to ResetNotifier
type ResetNotifierFunc func(ctx context.Context, email, token string, expiresAt time.Time) error

func (f ResetNotifierFunc) DeliverResetToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	return f(ctx, email, token, expiresAt)
}

// LogResetNotifier writes reset tokens to the server log.
// Only meant for deployments without a mail relay.
type LogResetNotifier struct {
	logger *zap.Logger
}

func NewLogResetNotifier(logger *zap.Logger) *LogResetNotifier {
	return &LogResetNotifier{logger: logger}
}

func (n *LogResetNotifier) DeliverResetToken(_ context.Context, email, token string, expiresAt time.Time) error {
	n.logger.Info("Password reset token issued",
		zap.String("email", email),
		zap.String("reset_token", token),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}

// Option configures a Service
type Option func(*Service)

// WithResetNotifier replaces the log-based reset token delivery
func WithResetNotifier(n ResetNotifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}
