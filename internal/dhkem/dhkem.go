// Package dhkem implements the DHKEM construction HPKE builds on top of a
// Diffie-Hellman group: the shared secret is ExtractAndExpand of the raw DH
// output, and the rejection-sampling DeriveKeyPair variant for NIST curves.
// One Scheme value exists per registered KEM codepoint; the curve-specific
// group arithmetic is supplied to the constructor, the Extract-and-Expand
// and key-derivation logic is shared.
package dhkem

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"hash"
	"io"

	x448 "git.schwanenlied.me/yawning/x448.git"
	"golang.org/x/crypto/curve25519"

	"filippo.io/hpke/internal/labeled"
)

// testingOnlyRandReader, when non-nil, replaces crypto/rand.Reader for key
// generation, so that an ephemeral key pair can be fixed rather than random
// (as reproducing RFC 9180 vectors needs). No test in this module sets it.
var testingOnlyRandReader io.Reader

func randReader() io.Reader {
	if testingOnlyRandReader != nil {
		return testingOnlyRandReader
	}
	return rand.Reader
}

// ErrInvalidKey is returned when a public or private key fails to parse or
// validate for the scheme's group.
var ErrInvalidKey = errors.New("dhkem: invalid key")

// Scheme implements the six KEM operations of §4.2 for one DH group.
type Scheme struct {
	id                 uint16
	nsk, nenc, nsecret int
	newHash            func() hash.Hash

	generateRaw func(rand io.Reader) (sk, pk []byte, err error)
	dhRaw       func(sk, pk []byte) ([]byte, error)
	pubFromPriv func(sk []byte) ([]byte, error)
	deriveRaw   func(dkpPRK []byte) (sk, pk []byte, err error)
}

func (s *Scheme) NSecret() int { return s.nsecret }
func (s *Scheme) NSK() int     { return s.nsk }
func (s *Scheme) NEnc() int    { return s.nenc }

func (s *Scheme) suiteID() []byte {
	return binary.BigEndian.AppendUint16([]byte("KEM"), s.id)
}

func (s *Scheme) extractAndExpand(dh, kemContext []byte) ([]byte, error) {
	prk := labeled.Extract(s.newHash, nil, s.suiteID(), "eae_prk", dh)
	return labeled.Expand(s.newHash, prk, s.suiteID(), "shared_secret", kemContext, s.nsecret)
}

// GenerateKeyPair returns a fresh random key pair.
func (s *Scheme) GenerateKeyPair() (sk, pk []byte, err error) {
	return s.generateRaw(randReader())
}

// DeriveKeyPair deterministically derives a key pair from ikm, which must be
// at least Nsk bytes (the caller is responsible for that check; this method
// only requires enough entropy for the underlying rejection sampling).
func (s *Scheme) DeriveKeyPair(ikm []byte) (sk, pk []byte, err error) {
	dkpPRK := labeled.Extract(s.newHash, nil, s.suiteID(), "dkp_prk", ikm)
	return s.deriveRaw(dkpPRK)
}

// Encap implements the non-authenticated KEM encapsulation of §4.2 against
// receiver public key pkR.
func (s *Scheme) Encap(pkR []byte) (sharedSecret, enc []byte, err error) {
	skE, pkE, err := s.GenerateKeyPair()
	if err != nil {
		return nil, nil, err
	}
	dh, err := s.dhRaw(skE, pkR)
	if err != nil {
		return nil, nil, err
	}
	kemContext := append(append([]byte{}, pkE...), pkR...)
	sharedSecret, err = s.extractAndExpand(dh, kemContext)
	return sharedSecret, pkE, err
}

// Decap implements the non-authenticated KEM decapsulation of §4.2.
func (s *Scheme) Decap(enc, skR []byte) (sharedSecret []byte, err error) {
	pkR, err := s.pubFromPriv(skR)
	if err != nil {
		return nil, err
	}
	dh, err := s.dhRaw(skR, enc)
	if err != nil {
		return nil, err
	}
	kemContext := append(append([]byte{}, enc...), pkR...)
	return s.extractAndExpand(dh, kemContext)
}

// AuthEncap implements the sender-authenticated KEM encapsulation of §4.2,
// mixing the sender's static key skS into the shared secret.
func (s *Scheme) AuthEncap(pkR, skS []byte) (sharedSecret, enc []byte, err error) {
	skE, pkE, err := s.GenerateKeyPair()
	if err != nil {
		return nil, nil, err
	}
	dh1, err := s.dhRaw(skE, pkR)
	if err != nil {
		return nil, nil, err
	}
	dh2, err := s.dhRaw(skS, pkR)
	if err != nil {
		return nil, nil, err
	}
	pkS, err := s.pubFromPriv(skS)
	if err != nil {
		return nil, nil, err
	}
	dh := append(append([]byte{}, dh1...), dh2...)
	kemContext := append(append(append([]byte{}, pkE...), pkR...), pkS...)
	sharedSecret, err = s.extractAndExpand(dh, kemContext)
	return sharedSecret, pkE, err
}

// AuthDecap implements the sender-authenticated KEM decapsulation of §4.2,
// verifying (implicitly, via shared-secret agreement) that enc was produced
// by the holder of skS matching pkS.
func (s *Scheme) AuthDecap(enc, skR, pkS []byte) (sharedSecret []byte, err error) {
	pkR, err := s.pubFromPriv(skR)
	if err != nil {
		return nil, err
	}
	dh1, err := s.dhRaw(skR, enc)
	if err != nil {
		return nil, err
	}
	dh2, err := s.dhRaw(skR, pkS)
	if err != nil {
		return nil, err
	}
	dh := append(append([]byte{}, dh1...), dh2...)
	kemContext := append(append(append([]byte{}, enc...), pkR...), pkS...)
	return s.extractAndExpand(dh, kemContext)
}

// X25519 returns the Scheme for DHKEM(X25519, HKDF-SHA256), id 0x0020.
func X25519() *Scheme {
	s := &Scheme{id: 0x0020, nsk: 32, nenc: 32, nsecret: 32, newHash: sha256.New}
	s.generateRaw = func(rand io.Reader) (sk, pk []byte, err error) {
		var skArr [32]byte
		if _, err := io.ReadFull(rand, skArr[:]); err != nil {
			return nil, nil, err
		}
		var pkArr [32]byte
		curve25519.ScalarBaseMult(&pkArr, &skArr)
		return skArr[:], pkArr[:], nil
	}
	s.dhRaw = func(sk, pk []byte) ([]byte, error) {
		if len(sk) != 32 || len(pk) != 32 {
			return nil, ErrInvalidKey
		}
		var skArr, pkArr, out [32]byte
		copy(skArr[:], sk)
		copy(pkArr[:], pk)
		curve25519.ScalarMult(&out, &skArr, &pkArr)
		if isAllZero(out[:]) {
			return nil, ErrInvalidKey
		}
		return out[:], nil
	}
	s.pubFromPriv = func(sk []byte) ([]byte, error) {
		if len(sk) != 32 {
			return nil, ErrInvalidKey
		}
		var skArr, pkArr [32]byte
		copy(skArr[:], sk)
		curve25519.ScalarBaseMult(&pkArr, &skArr)
		return pkArr[:], nil
	}
	s.deriveRaw = func(dkpPRK []byte) (sk, pk []byte, err error) {
		sk, err = labeled.Expand(s.newHash, dkpPRK, s.suiteID(), "sk", nil, s.nsk)
		if err != nil {
			return nil, nil, err
		}
		pk, err = s.pubFromPriv(sk)
		return sk, pk, err
	}
	return s
}

// X448 returns the Scheme for DHKEM(X448, HKDF-SHA512), id 0x0021.
func X448() *Scheme {
	s := &Scheme{id: 0x0021, nsk: 56, nenc: 56, nsecret: 64, newHash: sha512.New}
	s.generateRaw = func(rand io.Reader) (sk, pk []byte, err error) {
		var skArr [56]byte
		if _, err := io.ReadFull(rand, skArr[:]); err != nil {
			return nil, nil, err
		}
		var pkArr [56]byte
		x448.ScalarBaseMult(&pkArr, &skArr)
		return skArr[:], pkArr[:], nil
	}
	s.dhRaw = func(sk, pk []byte) ([]byte, error) {
		if len(sk) != 56 || len(pk) != 56 {
			return nil, ErrInvalidKey
		}
		var skArr, pkArr, out [56]byte
		copy(skArr[:], sk)
		copy(pkArr[:], pk)
		if x448.ScalarMult(&out, &skArr, &pkArr) != 0 {
			return nil, ErrInvalidKey
		}
		return out[:], nil
	}
	s.pubFromPriv = func(sk []byte) ([]byte, error) {
		if len(sk) != 56 {
			return nil, ErrInvalidKey
		}
		var skArr, pkArr [56]byte
		copy(skArr[:], sk)
		x448.ScalarBaseMult(&pkArr, &skArr)
		return pkArr[:], nil
	}
	s.deriveRaw = func(dkpPRK []byte) (sk, pk []byte, err error) {
		sk, err = labeled.Expand(s.newHash, dkpPRK, s.suiteID(), "sk", nil, s.nsk)
		if err != nil {
			return nil, nil, err
		}
		pk, err = s.pubFromPriv(sk)
		return sk, pk, err
	}
	return s
}

// nistCurve wires a crypto/ecdh.Curve into the rejection-sampling variant of
// DeriveKeyPair (§4.2): candidates are expanded from dkp_prk and rejected
// until one parses as a valid scalar for the curve's order.
func nistCurve(id uint16, curve ecdh.Curve, nsk, nenc, nsecret int, newHash func() hash.Hash, bitmask byte) *Scheme {
	s := &Scheme{id: id, nsk: nsk, nenc: nenc, nsecret: nsecret, newHash: newHash}
	s.generateRaw = func(rand io.Reader) (sk, pk []byte, err error) {
		priv, err := curve.GenerateKey(rand)
		if err != nil {
			return nil, nil, err
		}
		return priv.Bytes(), priv.PublicKey().Bytes(), nil
	}
	s.dhRaw = func(sk, pk []byte) ([]byte, error) {
		priv, err := curve.NewPrivateKey(sk)
		if err != nil {
			return nil, ErrInvalidKey
		}
		pub, err := curve.NewPublicKey(pk)
		if err != nil {
			return nil, ErrInvalidKey
		}
		out, err := priv.ECDH(pub)
		if err != nil {
			return nil, ErrInvalidKey
		}
		return out, nil
	}
	s.pubFromPriv = func(sk []byte) ([]byte, error) {
		priv, err := curve.NewPrivateKey(sk)
		if err != nil {
			return nil, ErrInvalidKey
		}
		return priv.PublicKey().Bytes(), nil
	}
	s.deriveRaw = func(dkpPRK []byte) (sk, pk []byte, err error) {
		for counter := 0; counter < 256; counter++ {
			candidate, err := labeled.Expand(newHash, dkpPRK, s.suiteID(), "candidate", []byte{byte(counter)}, nsk)
			if err != nil {
				return nil, nil, err
			}
			candidate[0] &= bitmask
			priv, err := curve.NewPrivateKey(candidate)
			if err != nil {
				continue
			}
			return candidate, priv.PublicKey().Bytes(), nil
		}
		return nil, nil, errors.New("dhkem: rejection sampling exhausted without a valid candidate")
	}
	return s
}

// P256 returns the Scheme for DHKEM(P-256, HKDF-SHA256), id 0x0010.
func P256() *Scheme {
	return nistCurve(0x0010, ecdh.P256(), 32, 65, 32, sha256.New, 0xFF)
}

// P384 returns the Scheme for DHKEM(P-384, HKDF-SHA384), id 0x0011.
func P384() *Scheme {
	return nistCurve(0x0011, ecdh.P384(), 48, 97, 48, sha512.New384, 0xFF)
}

// P521 returns the Scheme for DHKEM(P-521, HKDF-SHA512), id 0x0012. The
// leading candidate byte is masked with 0x01 because a P-521 scalar is 66
// bytes wide but only the lowest bit of the first byte is significant
// (521 = 65*8 + 1).
func P521() *Scheme {
	return nistCurve(0x0012, ecdh.P521(), 66, 133, 64, sha512.New, 0x01)
}

func isAllZero(b []byte) bool {
	var v byte
	for _, c := range b {
		v |= c
	}
	return v == 0
}
