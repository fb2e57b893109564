package hpke

import (
	"fmt"

	"filippo.io/hpke/internal/dhkem"
)

// kemScheme resolves a registered KEMID to its DHKEM implementation and
// translates the internal/dhkem package's plain errors into this package's
// error taxonomy (§7).
type kemScheme struct {
	id KEMID
	dh *dhkem.Scheme
}

func kemByID(id KEMID) (*kemScheme, error) {
	switch id {
	case DHKEM_P256_HKDF_SHA256:
		return &kemScheme{id: id, dh: dhkem.P256()}, nil
	case DHKEM_P384_HKDF_SHA384:
		return &kemScheme{id: id, dh: dhkem.P384()}, nil
	case DHKEM_P521_HKDF_SHA512:
		return &kemScheme{id: id, dh: dhkem.P521()}, nil
	case DHKEM_X25519_HKDF_SHA256:
		return &kemScheme{id: id, dh: dhkem.X25519()}, nil
	case DHKEM_X448_HKDF_SHA512:
		return &kemScheme{id: id, dh: dhkem.X448()}, nil
	default:
		return nil, ErrUnknownCodepoint
	}
}

func (k *kemScheme) nsk() int     { return k.dh.NSK() }
func (k *kemScheme) nenc() int    { return k.dh.NEnc() }
func (k *kemScheme) nsecret() int { return k.dh.NSecret() }

func (k *kemScheme) generateKeyPair() (sk, pk []byte, err error) {
	sk, pk, err = k.dh.GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("hpke: generating %s key pair: %w", KEMID(k.id), ErrCryptoFailure)
	}
	return sk, pk, nil
}

func (k *kemScheme) deriveKeyPair(ikm []byte) (sk, pk []byte, err error) {
	if len(ikm) < k.nsk() {
		return nil, nil, fmt.Errorf("hpke: ikm shorter than %s private key: %w", KEMID(k.id), ErrInvalidInput)
	}
	sk, pk, err = k.dh.DeriveKeyPair(ikm)
	if err != nil {
		return nil, nil, fmt.Errorf("hpke: deriving %s key pair: %w", KEMID(k.id), ErrCryptoFailure)
	}
	return sk, pk, nil
}

func (k *kemScheme) encap(pkR []byte) (sharedSecret, enc []byte, err error) {
	sharedSecret, enc, err = k.dh.Encap(pkR)
	if err != nil {
		return nil, nil, fmt.Errorf("hpke: %s encapsulation: %w", KEMID(k.id), ErrCryptoFailure)
	}
	return sharedSecret, enc, nil
}

func (k *kemScheme) decap(enc, skR []byte) (sharedSecret []byte, err error) {
	sharedSecret, err = k.dh.Decap(enc, skR)
	if err != nil {
		return nil, fmt.Errorf("hpke: %s decapsulation: %w", KEMID(k.id), ErrCryptoFailure)
	}
	return sharedSecret, nil
}

func (k *kemScheme) authEncap(pkR, skS []byte) (sharedSecret, enc []byte, err error) {
	sharedSecret, enc, err = k.dh.AuthEncap(pkR, skS)
	if err != nil {
		return nil, nil, fmt.Errorf("hpke: %s authenticated encapsulation: %w", KEMID(k.id), ErrCryptoFailure)
	}
	return sharedSecret, enc, nil
}

func (k *kemScheme) authDecap(enc, skR, pkS []byte) (sharedSecret []byte, err error) {
	sharedSecret, err = k.dh.AuthDecap(enc, skR, pkS)
	if err != nil {
		return nil, fmt.Errorf("hpke: %s authenticated decapsulation: %w", KEMID(k.id), ErrCryptoFailure)
	}
	return sharedSecret, nil
}
