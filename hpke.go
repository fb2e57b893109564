// Package hpke implements the IRTF CFRG Hybrid Public Key Encryption (HPKE)
// state machine and key schedule: Suite selection, Base/PSK/Auth/AuthPSK
// setup, and the streaming Context that performs sealed/opened messages and
// secret export. See SPEC_FULL.md for the full design.
package hpke

import "fmt"

// GenerateKeyPair returns a fresh random KEM key pair for s (§4.2 key_gen).
func (s *Suite) GenerateKeyPair() (KeyPair, error) {
	sk, pk, err := s.kem.generateKeyPair()
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PrivateKey: sk, PublicKey: pk}, nil
}

// DeriveKeyPair deterministically derives a KEM key pair from ikm, which
// must be at least Suite.Nsk() bytes (§4.2 derive_key_pair). This is the
// path test vectors use to reproduce fixed key pairs; production callers
// should prefer GenerateKeyPair.
func (s *Suite) DeriveKeyPair(ikm []byte) (KeyPair, error) {
	sk, pk, err := s.kem.deriveKeyPair(ikm)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PrivateKey: sk, PublicKey: pk}, nil
}

// SetupSender implements §4.7's setup_sender: it runs the KEM encapsulation
// appropriate for s.Mode() against the receiver's public key, then derives
// a Context via the key schedule. skS is required (and must be the
// sender's static private key) in Auth and AuthPSK mode, and ignored
// otherwise. psk/pskID are required together in PSK and AuthPSK mode and
// must be empty otherwise (§4.5).
func (s *Suite) SetupSender(pkR PublicKey, info []byte, psk, pskID []byte, skS PrivateKey) (enc []byte, ctx *Context, err error) {
	var sharedSecret []byte
	switch s.mode {
	case ModeBase, ModePSK:
		sharedSecret, enc, err = s.kem.encap(pkR)
	case ModeAuth, ModeAuthPSK:
		if len(skS) == 0 {
			return nil, nil, fmt.Errorf("hpke: %s requires a sender private key: %w", s.mode, ErrInvalidInput)
		}
		sharedSecret, enc, err = s.kem.authEncap(pkR, skS)
	default:
		return nil, nil, fmt.Errorf("hpke: mode %#02x: %w", uint8(s.mode), ErrUnknownCodepoint)
	}
	if err != nil {
		return nil, nil, err
	}

	ctx, err = keySchedule(s, sharedSecret, info, psk, pskID)
	if err != nil {
		return nil, nil, err
	}
	return enc, ctx, nil
}

// SetupReceiver implements §4.7's setup_receiver, the mirror of
// SetupSender: it decapsulates enc against the receiver's own private key
// to recover the shared secret, then runs the same key schedule. pkS is
// required in Auth and AuthPSK mode and must be the sender's static public
// key; it is ignored otherwise.
func (s *Suite) SetupReceiver(enc []byte, skR PrivateKey, info []byte, psk, pskID []byte, pkS PublicKey) (*Context, error) {
	var sharedSecret []byte
	var err error
	switch s.mode {
	case ModeBase, ModePSK:
		sharedSecret, err = s.kem.decap(enc, skR)
	case ModeAuth, ModeAuthPSK:
		if len(pkS) == 0 {
			return nil, fmt.Errorf("hpke: %s requires a sender public key: %w", s.mode, ErrInvalidInput)
		}
		sharedSecret, err = s.kem.authDecap(enc, skR, pkS)
	default:
		return nil, fmt.Errorf("hpke: mode %#02x: %w", uint8(s.mode), ErrUnknownCodepoint)
	}
	if err != nil {
		return nil, err
	}

	return keySchedule(s, sharedSecret, info, psk, pskID)
}

// Seal composes SetupSender with a single Seal call (§4.7).
func (s *Suite) Seal(pkR PublicKey, info, aad, pt []byte, psk, pskID []byte, skS PrivateKey) (enc, ct []byte, err error) {
	enc, ctx, err := s.SetupSender(pkR, info, psk, pskID, skS)
	if err != nil {
		return nil, nil, err
	}
	ct, err = ctx.Seal(aad, pt)
	if err != nil {
		return nil, nil, err
	}
	return enc, ct, nil
}

// Open composes SetupReceiver with a single Open call (§4.7).
func (s *Suite) Open(enc []byte, skR PrivateKey, info, aad, ct []byte, psk, pskID []byte, pkS PublicKey) ([]byte, error) {
	ctx, err := s.SetupReceiver(enc, skR, info, psk, pskID, pkS)
	if err != nil {
		return nil, err
	}
	return ctx.Open(aad, ct)
}

// SendExport composes SetupSender with a single Export call (§4.7).
func (s *Suite) SendExport(pkR PublicKey, info, exporterContext []byte, length int, psk, pskID []byte, skS PrivateKey) (enc, exported []byte, err error) {
	enc, ctx, err := s.SetupSender(pkR, info, psk, pskID, skS)
	if err != nil {
		return nil, nil, err
	}
	exported, err = ctx.Export(exporterContext, length)
	if err != nil {
		return nil, nil, err
	}
	return enc, exported, nil
}

// ReceiverExport composes SetupReceiver with a single Export call (§4.7).
func (s *Suite) ReceiverExport(enc []byte, skR PrivateKey, info, exporterContext []byte, length int, psk, pskID []byte, pkS PublicKey) ([]byte, error) {
	ctx, err := s.SetupReceiver(enc, skR, info, psk, pskID, pkS)
	if err != nil {
		return nil, err
	}
	return ctx.Export(exporterContext, length)
}
