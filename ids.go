package hpke

import "encoding/binary"

// KEMID identifies a Key Encapsulation Mechanism by its HPKE registry
// codepoint.
type KEMID uint16

// Registered KEM identifiers. Each DHKEM pairs a Diffie-Hellman group with
// the HKDF hash used for its internal Extract-and-Expand.
const (
	DHKEM_P256_HKDF_SHA256   KEMID = 0x0010
	DHKEM_P384_HKDF_SHA384   KEMID = 0x0011
	DHKEM_P521_HKDF_SHA512   KEMID = 0x0012
	DHKEM_X25519_HKDF_SHA256 KEMID = 0x0020
	DHKEM_X448_HKDF_SHA512   KEMID = 0x0021
)

func (id KEMID) String() string {
	switch id {
	case DHKEM_P256_HKDF_SHA256:
		return "DHKEM(P-256, HKDF-SHA256)"
	case DHKEM_P384_HKDF_SHA384:
		return "DHKEM(P-384, HKDF-SHA384)"
	case DHKEM_P521_HKDF_SHA512:
		return "DHKEM(P-521, HKDF-SHA512)"
	case DHKEM_X25519_HKDF_SHA256:
		return "DHKEM(X25519, HKDF-SHA256)"
	case DHKEM_X448_HKDF_SHA512:
		return "DHKEM(X448, HKDF-SHA512)"
	default:
		return "unknown KEM"
	}
}

// KDFID identifies a Key Derivation Function by its HPKE registry
// codepoint. Every KDF in the registry is HKDF instantiated with a
// particular hash.
type KDFID uint16

const (
	HKDF_SHA256 KDFID = 0x0001
	HKDF_SHA384 KDFID = 0x0002
	HKDF_SHA512 KDFID = 0x0003
)

func (id KDFID) String() string {
	switch id {
	case HKDF_SHA256:
		return "HKDF-SHA256"
	case HKDF_SHA384:
		return "HKDF-SHA384"
	case HKDF_SHA512:
		return "HKDF-SHA512"
	default:
		return "unknown KDF"
	}
}

// AEADID identifies an AEAD scheme by its HPKE registry codepoint.
// ExportOnly is a sentinel: a Context built with it forbids Seal and Open
// and exists solely to serve Export.
type AEADID uint16

const (
	AES128GCM        AEADID = 0x0001
	AES256GCM        AEADID = 0x0002
	ChaCha20Poly1305 AEADID = 0x0003
	ExportOnly       AEADID = 0xFFFF
)

func (id AEADID) String() string {
	switch id {
	case AES128GCM:
		return "AES-128-GCM"
	case AES256GCM:
		return "AES-256-GCM"
	case ChaCha20Poly1305:
		return "ChaCha20Poly1305"
	case ExportOnly:
		return "Export-Only"
	default:
		return "unknown AEAD"
	}
}

// Mode selects whether the key schedule mixes in sender authentication
// and/or a pre-shared key.
type Mode uint8

const (
	ModeBase    Mode = 0x00
	ModePSK     Mode = 0x01
	ModeAuth    Mode = 0x02
	ModeAuthPSK Mode = 0x03
)

func (m Mode) String() string {
	switch m {
	case ModeBase:
		return "Base"
	case ModePSK:
		return "PSK"
	case ModeAuth:
		return "Auth"
	case ModeAuthPSK:
		return "AuthPSK"
	default:
		return "unknown mode"
	}
}

// suiteID returns the 10-byte HPKE ciphersuite identifier
// "HPKE" || kem_id || kdf_id || aead_id, the domain separator mixed into
// every HPKE-level labeled call.
func suiteID(kem KEMID, kdf KDFID, aead AEADID) []byte {
	id := make([]byte, 0, 10)
	id = append(id, 'H', 'P', 'K', 'E')
	id = binary.BigEndian.AppendUint16(id, uint16(kem))
	id = binary.BigEndian.AppendUint16(id, uint16(kdf))
	id = binary.BigEndian.AppendUint16(id, uint16(aead))
	return id
}

// The KEM-internal 5-byte suite identifier "KEM" || kem_id used to
// domain-separate DHKEM's own labeled calls from the HPKE-level ones lives
// in internal/dhkem, next to the labeled calls it separates.
