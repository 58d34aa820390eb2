package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"sealbox/internal/crypto"
	"sealbox/internal/domain"
	"sealbox/internal/platform/metrics"
	"sealbox/internal/platform/ratelimit"
	"sealbox/internal/session"
	"sealbox/internal/util/memzero"
)

const minPasswordLength = 10

var (
	// ErrWeakPassword is returned when the password fails the strength policy.
	ErrWeakPassword = fmt.Errorf(
		"password is too weak (must be at least %d characters and mix letters with digits or symbols)",
		minPasswordLength,
	)

	// ErrUnlockThrottled is returned when unlock attempts for an account
	// come in faster than the per-user limit allows.
	ErrUnlockThrottled = errors.New("too many unlock attempts, retry later")
)

// Service manages identity key creation and unlock against a directory store.
//
// The raw private key exists in exactly two places: transiently inside
// Register (wiped before returning) and inside the session cache after a
// successful Unlock. It is never written to durable storage.
type Service struct {
	dir     domain.DirectoryStore
	limiter *ratelimit.PerKey
	log     *slog.Logger
	now     func() time.Time
}

// New returns an identity service backed by the given directory store.
// limiter may be nil to disable unlock throttling.
func New(dir domain.DirectoryStore, limiter *ratelimit.PerKey, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{dir: dir, limiter: limiter, log: log, now: time.Now}
}

// Register generates a fresh keypair for userID, wraps the private key
// under password, and persists the directory record. The raw private key
// is wiped before returning; the caller gets only public artifacts.
func (s *Service) Register(ctx context.Context, userID, password string) (domain.UserRecord, error) {
	if !isStrongPassword(password) {
		return domain.UserRecord{}, ErrWeakPassword
	}
	pub, priv, err := crypto.GenerateKeypair()
	if err != nil {
		return domain.UserRecord{}, err
	}
	defer memzero.Zero(priv[:])

	params, err := crypto.DefaultKDFParams()
	if err != nil {
		return domain.UserRecord{}, err
	}
	key, err := crypto.DeriveKey(password, params)
	if err != nil {
		return domain.UserRecord{}, err
	}
	defer memzero.Zero(key)

	wrapped, err := crypto.Wrap(priv, key)
	if err != nil {
		return domain.UserRecord{}, err
	}
	rec := domain.UserRecord{
		UserID:            userID,
		PublicKey:         pub,
		WrappedPrivateKey: wrapped,
		KDF:               params,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.dir.SaveUser(ctx, rec); err != nil {
		return domain.UserRecord{}, err
	}
	s.log.Info("identity registered", "user_id", userID, "fingerprint", crypto.Fingerprint(pub))
	return rec, nil
}

// Unlock re-derives the wrapping key from password and places the unwrapped
// private key in the session cache. A wrong password yields
// domain.ErrInvalidPassword; the caller surfaces it as a retry prompt.
func (s *Service) Unlock(ctx context.Context, sess *session.Cache, password string) error {
	userID := sess.UserID()
	if !s.limiter.Allow(userID, s.now()) {
		metrics.UnlockAttempts.WithLabelValues("throttled").Inc()
		return ErrUnlockThrottled
	}

	rec, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	key, err := crypto.DeriveKey(password, rec.KDF)
	if err != nil {
		return err
	}
	defer memzero.Zero(key)

	priv, err := crypto.Unwrap(rec.WrappedPrivateKey, key)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPassword) {
			metrics.UnlockAttempts.WithLabelValues("bad_password").Inc()
			s.log.Warn("unlock rejected", "user_id", userID)
		}
		return err
	}
	if err := sess.SetIdentityKey(priv); err != nil {
		memzero.Zero(priv[:])
		return err
	}
	metrics.UnlockAttempts.WithLabelValues("ok").Inc()
	return nil
}

// Fingerprint returns the short display fingerprint of an account's public key.
func (s *Service) Fingerprint(ctx context.Context, userID string) (string, error) {
	rec, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(rec.PublicKey), nil
}

func isStrongPassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	var hasLetter, hasOther bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			hasOther = true
		}
	}
	return hasLetter && hasOther
}
