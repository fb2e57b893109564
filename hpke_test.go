package hpke

import (
	"bytes"
	"errors"
	"testing"
)

func mustSuite(t *testing.T, mode Mode, kem KEMID, kdf KDFID, aead AEADID) *Suite {
	t.Helper()
	s, err := NewSuite(mode, kem, kdf, aead)
	if err != nil {
		t.Fatalf("NewSuite: %v", err)
	}
	return s
}

// setupPair builds matching sender/receiver Contexts for mode over an
// ephemeral receiver (and, for Auth modes, sender) key pair.
func setupPair(t *testing.T, s *Suite, info, psk, pskID []byte) (sender, receiver *Context, enc []byte) {
	t.Helper()

	rkp, err := s.GenerateKeyPair()
	if err != nil {
		t.Fatalf("receiver GenerateKeyPair: %v", err)
	}
	skR, pkR := rkp.Split()

	var skS PrivateKey
	var pkS PublicKey
	if s.Mode() == ModeAuth || s.Mode() == ModeAuthPSK {
		skp, err := s.GenerateKeyPair()
		if err != nil {
			t.Fatalf("sender GenerateKeyPair: %v", err)
		}
		skS, pkS = skp.Split()
	}

	enc, sender, err = s.SetupSender(pkR, info, psk, pskID, skS)
	if err != nil {
		t.Fatalf("SetupSender: %v", err)
	}
	receiver, err = s.SetupReceiver(enc, skR, info, psk, pskID, pkS)
	if err != nil {
		t.Fatalf("SetupReceiver: %v", err)
	}
	return sender, receiver, enc
}

var allModes = []Mode{ModeBase, ModePSK, ModeAuth, ModeAuthPSK}

func pskFor(mode Mode) (psk, pskID []byte) {
	switch mode {
	case ModePSK, ModeAuthPSK:
		return []byte("a very secret pre-shared key"), []byte("psk-id")
	default:
		return nil, nil
	}
}

// TestRoundTrip covers §8 property 1 across every mode, each run over six
// KEM/KDF/AEAD combinations that together cover all five KEMs, and property 3 (sequence monotonicity / distinct
// ciphertexts for repeated plaintext).
func TestRoundTrip(t *testing.T) {
	suites := []struct {
		name string
		kem  KEMID
		kdf  KDFID
		aead AEADID
	}{
		{"X25519/SHA256/AES128GCM", DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM},
		{"X25519/SHA256/ChaCha20Poly1305", DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, ChaCha20Poly1305},
		{"X448/SHA512/AES256GCM", DHKEM_X448_HKDF_SHA512, HKDF_SHA512, AES256GCM},
		{"P256/SHA256/AES128GCM", DHKEM_P256_HKDF_SHA256, HKDF_SHA256, AES128GCM},
		{"P384/SHA384/AES256GCM", DHKEM_P384_HKDF_SHA384, HKDF_SHA384, AES256GCM},
		{"P521/SHA512/ChaCha20Poly1305", DHKEM_P521_HKDF_SHA512, HKDF_SHA512, ChaCha20Poly1305},
	}

	for _, sc := range suites {
		sc := sc
		for _, mode := range allModes {
			mode := mode
			t.Run(sc.name+"/"+mode.String(), func(t *testing.T) {
				s := mustSuite(t, mode, sc.kem, sc.kdf, sc.aead)
				psk, pskID := pskFor(mode)
				sender, receiver, _ := setupPair(t, s, []byte("application info"), psk, pskID)

				const n = 5
				pt := []byte("the quick brown fox")
				aad := []byte("associated data")
				var cts [][]byte
				for i := 0; i < n; i++ {
					ct, err := sender.Seal(aad, pt)
					if err != nil {
						t.Fatalf("Seal #%d: %v", i, err)
					}
					cts = append(cts, ct)
				}
				for i := 1; i < n; i++ {
					if bytes.Equal(cts[i-1], cts[i]) {
						t.Fatalf("ciphertext #%d repeats #%d despite constant plaintext", i, i-1)
					}
				}
				for i, ct := range cts {
					got, err := receiver.Open(aad, ct)
					if err != nil {
						t.Fatalf("Open #%d: %v", i, err)
					}
					if !bytes.Equal(got, pt) {
						t.Fatalf("Open #%d: got %q, want %q", i, got, pt)
					}
				}
				if sender.Sequence() != n || receiver.Sequence() != n {
					t.Fatalf("sequence numbers = %d/%d, want %d", sender.Sequence(), receiver.Sequence(), n)
				}
			})
		}
	}
}

// TestExportEquivalence covers §8 property 2.
func TestExportEquivalence(t *testing.T) {
	for _, mode := range allModes {
		mode := mode
		t.Run(mode.String(), func(t *testing.T) {
			s := mustSuite(t, mode, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
			psk, pskID := pskFor(mode)
			sender, receiver, _ := setupPair(t, s, []byte("info"), psk, pskID)

			ctx := []byte("exporter context")
			a, err := sender.Export(ctx, 48)
			if err != nil {
				t.Fatal(err)
			}
			b, err := receiver.Export(ctx, 48)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(a, b) {
				t.Fatalf("sender and receiver exports differ: %x vs %x", a, b)
			}

			// Export never touches the sequence number.
			if sender.Sequence() != 0 {
				t.Fatalf("Export advanced the sequence number to %d", sender.Sequence())
			}
		})
	}
}

// TestAuthenticationFailures covers §8 property 4: single-bit flips of ct,
// aad, or enc must fail authentication rather than decrypt successfully or
// panic.
func TestAuthenticationFailures(t *testing.T) {
	s := mustSuite(t, ModeBase, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
	rkp, err := s.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	skR, pkR := rkp.Split()
	info := []byte("info")
	aad := []byte("aad")
	pt := []byte("secret message")

	enc, sender, err := s.SetupSender(pkR, info, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := sender.Seal(aad, pt)
	if err != nil {
		t.Fatal(err)
	}

	flip := func(b []byte) []byte {
		out := append([]byte{}, b...)
		out[0] ^= 0x01
		return out
	}

	cases := []struct {
		name     string
		enc, aad, ct []byte
	}{
		{"bad ciphertext", enc, aad, flip(ct)},
		{"bad aad", enc, flip(aad), ct},
		{"bad enc", flip(enc), aad, ct},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			receiver, err := s.SetupReceiver(c.enc, skR, info, nil, nil, nil)
			if err != nil {
				// A corrupted enc may fail to decapsulate outright; that's
				// an acceptable way to reject it too.
				return
			}
			if _, err := receiver.Open(c.aad, c.ct); !errors.Is(err, ErrOpen) {
				t.Fatalf("got %v, want ErrOpen", err)
			}
		})
	}
}

// TestOutOfOrderRejection covers §8 property 5.
func TestOutOfOrderRejection(t *testing.T) {
	s := mustSuite(t, ModeBase, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
	sender, receiver, _ := setupPair(t, s, []byte("info"), nil, nil)

	aad := []byte("aad")
	var cts [][]byte
	for i := 0; i < 3; i++ {
		ct, err := sender.Seal(aad, []byte("message"))
		if err != nil {
			t.Fatal(err)
		}
		cts = append(cts, ct)
	}

	// Skip straight to the third ciphertext without opening the first two.
	if _, err := receiver.Open(aad, cts[2]); !errors.Is(err, ErrOpen) {
		t.Fatalf("got %v, want ErrOpen", err)
	}
	// The sequence number must not have advanced on the failed attempt.
	if receiver.Sequence() != 0 {
		t.Fatalf("sequence number advanced to %d after a failed Open", receiver.Sequence())
	}
	// The receiver can still catch up in order.
	if _, err := receiver.Open(aad, cts[0]); err != nil {
		t.Fatalf("Open after a failed attempt: %v", err)
	}
}

// TestPSKValidation covers §8 property 6.
func TestPSKValidation(t *testing.T) {
	s := mustSuite(t, ModeBase, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
	rkp, err := s.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	_, pkR := rkp.Split()

	if _, _, err := s.SetupSender(pkR, nil, []byte("psk"), nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("psk without psk_id: got %v, want ErrInvalidInput", err)
	}
	if _, _, err := s.SetupSender(pkR, nil, nil, []byte("psk_id"), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("psk_id without psk: got %v, want ErrInvalidInput", err)
	}
	if _, _, err := s.SetupSender(pkR, nil, []byte("psk"), []byte("psk_id"), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("psk supplied in Base mode: got %v, want ErrInvalidInput", err)
	}

	psks := mustSuite(t, ModePSK, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
	if _, _, err := psks.SetupSender(pkR, nil, nil, nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing psk in PSK mode: got %v, want ErrInvalidInput", err)
	}
}

// TestAuthRequirement covers §8 property 7.
func TestAuthRequirement(t *testing.T) {
	for _, mode := range []Mode{ModeAuth, ModeAuthPSK} {
		mode := mode
		t.Run(mode.String(), func(t *testing.T) {
			s := mustSuite(t, mode, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
			rkp, err := s.GenerateKeyPair()
			if err != nil {
				t.Fatal(err)
			}
			skR, pkR := rkp.Split()
			psk, pskID := pskFor(mode)

			if _, _, err := s.SetupSender(pkR, nil, psk, pskID, nil); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("sender without sk_s: got %v, want ErrInvalidInput", err)
			}

			skp, err := s.GenerateKeyPair()
			if err != nil {
				t.Fatal(err)
			}
			skS, _ := skp.Split()
			enc, _, err := s.SetupSender(pkR, nil, psk, pskID, skS)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := s.SetupReceiver(enc, skR, nil, psk, pskID, nil); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("receiver without pk_s: got %v, want ErrInvalidInput", err)
			}
		})
	}
}

// TestExportOnly covers §8 property 8.
func TestExportOnly(t *testing.T) {
	s := mustSuite(t, ModeBase, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, ExportOnly)
	sender, receiver, _ := setupPair(t, s, []byte("info"), nil, nil)

	if _, err := sender.Seal(nil, []byte("pt")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Seal on Export-Only: got %v, want ErrInvalidConfig", err)
	}
	if _, err := receiver.Open(nil, []byte("ct")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Open on Export-Only: got %v, want ErrInvalidConfig", err)
	}

	a, err := sender.Export([]byte("ctx"), 32)
	if err != nil {
		t.Fatalf("Export on Export-Only: %v", err)
	}
	b, err := receiver.Export([]byte("ctx"), 32)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("Export-Only sender/receiver exports differ")
	}
	if len(a) != 32 {
		t.Fatalf("export length = %d, want 32", len(a))
	}
}

// TestDeriveKeyPairShortIKM covers the DeriveKeyPair error case of §4.2.
func TestDeriveKeyPairShortIKM(t *testing.T) {
	s := mustSuite(t, ModeBase, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
	if _, err := s.DeriveKeyPair(make([]byte, s.Nsk()-1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short ikm: got %v, want ErrInvalidInput", err)
	}
	if _, err := s.DeriveKeyPair(make([]byte, s.Nsk())); err != nil {
		t.Errorf("ikm of exactly Nsk bytes should succeed: %v", err)
	}
}

// TestSingleShotSealOpen exercises the composed §4.7 single-shot API.
func TestSingleShotSealOpen(t *testing.T) {
	s := mustSuite(t, ModeBase, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
	rkp, err := s.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	skR, pkR := rkp.Split()

	enc, ct, err := s.Seal(pkR, []byte("info"), []byte("aad"), []byte("pt"), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := s.Open(enc, skR, []byte("info"), []byte("aad"), ct, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(pt) != "pt" {
		t.Fatalf("got %q, want %q", pt, "pt")
	}
}

func TestSingleShotExport(t *testing.T) {
	s := mustSuite(t, ModeBase, DHKEM_X25519_HKDF_SHA256, HKDF_SHA256, AES128GCM)
	rkp, err := s.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	skR, pkR := rkp.Split()

	enc, a, err := s.SendExport(pkR, []byte("info"), []byte("ctx"), 32, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.ReceiverExport(enc, skR, []byte("info"), []byte("ctx"), 32, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("single-shot exports differ")
	}
}
