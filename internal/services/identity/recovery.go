package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"sealbox/internal/crypto"
	"sealbox/internal/domain"
	"sealbox/internal/session"
	"sealbox/internal/util/memzero"
)

// ErrInvalidMnemonic is returned when a recovery phrase fails checksum
// validation or does not encode a usable private key.
var ErrInvalidMnemonic = errors.New("invalid recovery phrase")

// ExportRecoveryPhrase encodes the session's unlocked private key as a
// 24-word mnemonic. Losing both the password and this phrase makes every
// group sealed to this identity unrecoverable; that is the zero-knowledge
// trade-off, and the phrase is the only sanctioned escape hatch.
func (s *Service) ExportRecoveryPhrase(_ context.Context, sess *session.Cache) (string, error) {
	priv, err := sess.IdentityKey()
	if err != nil {
		return "", err
	}
	mnemonic, err := bip39.NewMnemonic(priv.Slice())
	if err != nil {
		return "", fmt.Errorf("encode recovery phrase: %w", err)
	}
	return mnemonic, nil
}

// ImportRecoveryPhrase restores the keypair from a mnemonic, re-wraps it
// under newPassword, and updates the directory record. The public key must
// match the one on file; a phrase for a different identity is rejected.
func (s *Service) ImportRecoveryPhrase(ctx context.Context, userID, mnemonic, newPassword string) error {
	if !isStrongPassword(newPassword) {
		return ErrWeakPassword
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil || len(entropy) != 32 {
		return ErrInvalidMnemonic
	}
	priv := domain.MustPrivateKey(entropy)
	defer memzero.Zero(priv[:])
	defer memzero.Zero(entropy)

	pub, err := crypto.DerivePublicKey(priv)
	if err != nil {
		return ErrInvalidMnemonic
	}

	rec, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if rec.PublicKey != pub {
		return fmt.Errorf("recovery phrase does not match account %q: %w", userID, ErrInvalidMnemonic)
	}

	params, err := crypto.DefaultKDFParams()
	if err != nil {
		return err
	}
	key, err := crypto.DeriveKey(newPassword, params)
	if err != nil {
		return err
	}
	defer memzero.Zero(key)

	wrapped, err := crypto.Wrap(priv, key)
	if err != nil {
		return err
	}
	rec.WrappedPrivateKey = wrapped
	rec.KDF = params
	if err := s.dir.SaveUser(ctx, rec); err != nil {
		return err
	}
	s.log.Info("identity re-wrapped from recovery phrase", "user_id", userID)
	return nil
}
