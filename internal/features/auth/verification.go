package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/mobtwin/admin-backend/internal/cache"
	"github.com/mobtwin/admin-backend/internal/common/apperr"
	"github.com/mobtwin/admin-backend/internal/config"
)

// VerificationCode is a short-lived login verification secret keyed by email.
// Codes live in the cache with an explicit TTL so they survive process
// restarts and are shared across instances.
type VerificationCode struct {
	Code      string    `json:"code"`
	Kind      string    `json:"kind"`
	IpAddress string    `json:"ip_address"`
	IssuedAt  time.Time `json:"issued_at"`
}

type VerificationService interface {
	IssueCode(ctx context.Context, email, kind, ipAddress string) (*VerificationCode, error)
	VerifyCode(ctx context.Context, email, code string) error
}

type VerificationServiceImpl struct {
	Cache *cache.Cache
	TTL   time.Duration
}

func NewVerificationService(c *cache.Cache, cfg *config.Config) VerificationService {
	return &VerificationServiceImpl{
		Cache: c,
		TTL:   cfg.VerificationTTL,
	}
}

func codeKey(email string) string {
	return cache.Key("verification", email)
}

// IssueCode mints a code for the email, replacing any outstanding one.
// Re-issuing for the same email is idempotent in effect: there is always at
// most one live code per email key.
func (s *VerificationServiceImpl) IssueCode(ctx context.Context, email, kind, ipAddress string) (*VerificationCode, error) {
	code, err := randomCode()
	if err != nil {
		return nil, err
	}

	vc := &VerificationCode{
		Code:      code,
		Kind:      kind,
		IpAddress: ipAddress,
		IssuedAt:  time.Now(),
	}
	if err := s.Cache.SetJSON(ctx, codeKey(email), vc, s.TTL); err != nil {
		return nil, apperr.ErrUpstreamFailure
	}
	return vc, nil
}

// VerifyCode checks and consumes the outstanding code for the email.
func (s *VerificationServiceImpl) VerifyCode(ctx context.Context, email, code string) error {
	var vc VerificationCode
	ok, err := s.Cache.GetJSON(ctx, codeKey(email), &vc)
	if err != nil {
		return apperr.ErrUpstreamFailure
	}
	if !ok || vc.Code != code {
		return apperr.ErrInvalidCredentials
	}

	if err := s.Cache.Delete(ctx, codeKey(email)); err != nil {
		return apperr.ErrUpstreamFailure
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
