package hpke

import "filippo.io/hpke/internal/encoding"

// PublicKey is an opaque, KEM-defined public key. The engine attaches no
// algebraic interpretation to it; only the resolved KEM provider parses
// its bytes.
type PublicKey []byte

// String prints k as unpadded base64, for logging and display only — it
// is not a wire format.
func (k PublicKey) String() string { return encoding.EncodeToString(k) }

// PrivateKey is an opaque, KEM-defined private key.
type PrivateKey []byte

// String prints k as unpadded base64. Treat the result as secret: anyone
// holding it can decrypt or impersonate its owner.
func (k PrivateKey) String() string { return encoding.EncodeToString(k) }

// KeyPair owns both halves of a KEM key pair, as produced by
// GenerateKeyPair or DeriveKeyPair.
type KeyPair struct {
	PrivateKey PrivateKey
	PublicKey  PublicKey
}

// Split returns the pair's two halves independently.
func (kp KeyPair) Split() (PrivateKey, PublicKey) {
	return kp.PrivateKey, kp.PublicKey
}
