package hpke

import (
	"encoding/binary"
	"fmt"
)

// Suite is the immutable engine configuration of §3: a ciphersuite
// selection plus its resolved primitive providers and cached byte-length
// constants. Once constructed by NewSuite it may be shared freely across
// goroutines for read access; it carries no mutable state of its own.
type Suite struct {
	mode   Mode
	kemID  KEMID
	kdfID  KDFID
	aeadID AEADID

	kem  *kemScheme
	kdf  *kdfScheme
	aead *aeadScheme

	id         []byte
	nk, nn, nh int
}

// NewSuite validates and resolves a (mode, kem, kdf, aead) selection into a
// Suite. It is the sole constructor for Suite: there is no path to a
// Context that doesn't start here.
func NewSuite(mode Mode, kemID KEMID, kdfID KDFID, aeadID AEADID) (*Suite, error) {
	switch mode {
	case ModeBase, ModePSK, ModeAuth, ModeAuthPSK:
	default:
		return nil, fmt.Errorf("hpke: mode %#02x: %w", uint8(mode), ErrUnknownCodepoint)
	}

	kem, err := kemByID(kemID)
	if err != nil {
		return nil, fmt.Errorf("hpke: KEM %#04x: %w", uint16(kemID), ErrUnknownCodepoint)
	}
	kdf, err := kdfByID(kdfID)
	if err != nil {
		return nil, fmt.Errorf("hpke: KDF %#04x: %w", uint16(kdfID), ErrUnknownCodepoint)
	}
	aead, err := aeadByID(aeadID)
	if err != nil {
		return nil, fmt.Errorf("hpke: AEAD %#04x: %w", uint16(aeadID), ErrUnknownCodepoint)
	}

	return &Suite{
		mode: mode, kemID: kemID, kdfID: kdfID, aeadID: aeadID,
		kem: kem, kdf: kdf, aead: aead,
		id: suiteID(kemID, kdfID, aeadID),
		nk: aead.nk, nn: aead.nn, nh: kdf.nh,
	}, nil
}

func (s *Suite) Mode() Mode       { return s.mode }
func (s *Suite) KEMID() KEMID     { return s.kemID }
func (s *Suite) KDFID() KDFID     { return s.kdfID }
func (s *Suite) AEADID() AEADID   { return s.aeadID }
func (s *Suite) Nk() int          { return s.nk }
func (s *Suite) Nn() int          { return s.nn }
func (s *Suite) Nh() int          { return s.nh }
func (s *Suite) Nsk() int         { return s.kem.nsk() }
func (s *Suite) Nenc() int        { return s.kem.nenc() }
func (s *Suite) ID() []byte       { return append([]byte{}, s.id...) }

func (s *Suite) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", s.mode, s.kemID, s.kdfID, s.aeadID)
}

// Serialize externalizes s as the 7-byte tuple
// mode_u8 || kem_id_be16 || kdf_id_be16 || aead_id_be16 described in §6.
// This is an implementation-private convenience, not part of the RFC wire
// format.
func (s *Suite) Serialize() []byte {
	b := make([]byte, 0, 7)
	b = append(b, byte(s.mode))
	b = binary.BigEndian.AppendUint16(b, uint16(s.kemID))
	b = binary.BigEndian.AppendUint16(b, uint16(s.kdfID))
	b = binary.BigEndian.AppendUint16(b, uint16(s.aeadID))
	return b
}

// DeserializeSuite parses the 7-byte tuple produced by Serialize back into
// a validated Suite. An unrecognized codepoint, or input of the wrong
// length, fails with ErrUnknownCodepoint.
func DeserializeSuite(b []byte) (*Suite, error) {
	if len(b) != 7 {
		return nil, fmt.Errorf("hpke: serialized suite must be 7 bytes, got %d: %w", len(b), ErrUnknownCodepoint)
	}
	mode := Mode(b[0])
	kemID := KEMID(binary.BigEndian.Uint16(b[1:3]))
	kdfID := KDFID(binary.BigEndian.Uint16(b[3:5]))
	aeadID := AEADID(binary.BigEndian.Uint16(b[5:7]))
	return NewSuite(mode, kemID, kdfID, aeadID)
}
