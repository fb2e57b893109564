package hpke

import "errors"

// The error kinds an Engine operation can return. Every error returned by
// this package wraps exactly one of these with errors.Is support, so callers
// can branch on failure kind without string matching.
var (
	// ErrOpen is returned when an AEAD Open call fails authentication. No
	// plaintext is ever returned alongside it.
	ErrOpen = errors.New("hpke: message authentication failed")

	// ErrInvalidConfig is returned when an operation is not allowed by the
	// Suite's configuration, such as Seal or Open on an Export-Only Suite.
	ErrInvalidConfig = errors.New("hpke: operation not allowed by this configuration")

	// ErrInvalidInput is returned for malformed or inconsistent caller
	// input: a missing sender or receiver authentication key in an Auth
	// mode, inconsistent PSK/PSK id presence, or an IKM shorter than the
	// KEM's private key size in DeriveKeyPair.
	ErrInvalidInput = errors.New("hpke: invalid input")

	// ErrUnknownCodepoint is returned when a KEM, KDF, AEAD, or Mode
	// identifier is not one of the registered codepoints.
	ErrUnknownCodepoint = errors.New("hpke: unknown codepoint")

	// ErrMessageLimitReached is returned when a Context's sequence number
	// has exhausted the AEAD's nonce space. The Context's Export method
	// remains usable.
	ErrMessageLimitReached = errors.New("hpke: message limit reached for this context")

	// ErrCryptoFailure is returned for primitive-level failures that don't
	// fall into any of the above, such as a malformed KEM public key.
	ErrCryptoFailure = errors.New("hpke: cryptographic operation failed")
)
