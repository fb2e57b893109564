package hpke

import "filippo.io/hpke/internal/labeled"

// verifyPSKInputs enforces §4.5's PSK/psk_id consistency rules: the two
// must be either both empty or both non-empty, and their emptiness must
// match what the mode requires.
func verifyPSKInputs(mode Mode, psk, pskID []byte) error {
	havePSK := len(psk) != 0
	havePSKID := len(pskID) != 0
	if havePSK != havePSKID {
		return ErrInvalidInput
	}
	switch mode {
	case ModeBase, ModeAuth:
		if havePSK {
			return ErrInvalidInput
		}
	case ModePSK, ModeAuthPSK:
		if !havePSK {
			return ErrInvalidInput
		}
	}
	return nil
}

// keySchedule implements §4.5: it combines the KEM's shared secret with the
// caller's info and optional PSK into the key, base nonce, and exporter
// secret that seed a new Context at sequence 0.
func keySchedule(suite *Suite, sharedSecret, info, psk, pskID []byte) (*Context, error) {
	if err := verifyPSKInputs(suite.mode, psk, pskID); err != nil {
		return nil, err
	}

	newHash := suite.kdf.newHash
	sid := suite.id

	pskIDHash := labeled.Extract(newHash, nil, sid, "psk_id_hash", pskID)
	infoHash := labeled.Extract(newHash, nil, sid, "info_hash", info)
	ksContext := make([]byte, 0, 1+len(pskIDHash)+len(infoHash))
	ksContext = append(ksContext, byte(suite.mode))
	ksContext = append(ksContext, pskIDHash...)
	ksContext = append(ksContext, infoHash...)

	secret := labeled.Extract(newHash, sharedSecret, sid, "secret", psk)

	key, err := labeled.Expand(newHash, secret, sid, "key", ksContext, suite.nk)
	if err != nil {
		return nil, err
	}
	nonceBase, err := labeled.Expand(newHash, secret, sid, "base_nonce", ksContext, suite.nn)
	if err != nil {
		return nil, err
	}
	exporterSecret, err := labeled.Expand(newHash, secret, sid, "exp", ksContext, suite.nh)
	if err != nil {
		return nil, err
	}

	return &Context{
		suite:          suite,
		key:            key,
		nonceBase:      nonceBase,
		exporterSecret: exporterSecret,
	}, nil
}
