package hpke

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"
)

// aeadScheme resolves a registered AEADID to a key size, nonce size, and the
// cipher.AEAD constructor that implements it (§4.3). ExportOnly is the one
// codepoint with no cipher at all: its Seal/Open always fail, and Nk/Nn are
// both zero per the HPKE registry.
type aeadScheme struct {
	id        AEADID
	nk, nn    int
	newCipher func(key []byte) (cipher.AEAD, error)
}

func aeadByID(id AEADID) (*aeadScheme, error) {
	switch id {
	case AES128GCM:
		return &aeadScheme{id: id, nk: 16, nn: 12, newCipher: newAESGCM}, nil
	case AES256GCM:
		return &aeadScheme{id: id, nk: 32, nn: 12, newCipher: newAESGCM}, nil
	case ChaCha20Poly1305:
		return &aeadScheme{id: id, nk: 32, nn: chacha20poly1305.NonceSize, newCipher: chacha20poly1305.New}, nil
	case ExportOnly:
		return &aeadScheme{id: id, nk: 0, nn: 0, newCipher: nil}, nil
	default:
		return nil, ErrUnknownCodepoint
	}
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// seal encrypts pt and authenticates aad under key/nonce, appending the
// AEAD's tag to the returned ciphertext. It fails with ErrInvalidConfig if
// the scheme is Export-Only.
func (a *aeadScheme) seal(key, nonce, aad, pt []byte) ([]byte, error) {
	if a.newCipher == nil {
		return nil, ErrInvalidConfig
	}
	c, err := a.newCipher(key)
	if err != nil {
		return nil, err
	}
	return c.Seal(nil, nonce, pt, aad), nil
}

// open authenticates and decrypts ct under key/nonce/aad. On authentication
// failure it returns ErrOpen and no plaintext.
func (a *aeadScheme) open(key, nonce, aad, ct []byte) ([]byte, error) {
	if a.newCipher == nil {
		return nil, ErrInvalidConfig
	}
	c, err := a.newCipher(key)
	if err != nil {
		return nil, err
	}
	pt, err := c.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, ErrOpen
	}
	return pt, nil
}
