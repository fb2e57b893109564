package hpke

import (
	"encoding/binary"
	"fmt"
	"sync"

	"filippo.io/hpke/internal/labeled"
)

// Context is the stateful sealer/opener/exporter produced by a key
// schedule (§3, §4.6). It is created exclusively by SetupSender or
// SetupReceiver; there is no other construction path. A single Context
// must not be used for concurrent Seal/Open calls — the mutex below turns
// a concurrent-misuse bug into blocking rather than silent nonce reuse.
type Context struct {
	suite *Suite

	key            []byte
	nonceBase      []byte
	exporterSecret []byte

	mu  sync.Mutex
	seq uint64
}

// Suite returns the ciphersuite this Context was derived under.
func (c *Context) Suite() *Suite { return c.suite }

// Sequence returns the current sequence number, for callers that want to
// observe progress without mutating the Context.
func (c *Context) Sequence() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// maxSeq returns the largest sequence number representable in the AEAD's
// Nn-byte nonce space. Every registered AEAD here has Nn >= 8, so that
// space vastly exceeds uint64 range and this is effectively unreachable;
// it exists so the bound is enforced exactly as specified rather than
// relying on the uint64 counter wrapping.
func (c *Context) maxSeq() uint64 {
	bits := uint(c.suite.nn) * 8
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// computeNonce XORs the base nonce with the current sequence number,
// encoded as a 64-bit big-endian integer left-padded to Nn bytes. The RFC
// mandates the 64-bit width; see SPEC_FULL.md §9 for why that matters.
func (c *Context) computeNonce() []byte {
	nn := c.suite.nn
	seqBytes := make([]byte, nn)
	binary.BigEndian.PutUint64(seqBytes[nn-8:], c.seq)
	nonce := make([]byte, nn)
	for i := range nonce {
		nonce[i] = seqBytes[i] ^ c.nonceBase[i]
	}
	return nonce
}

// Seal encrypts pt, authenticating aad alongside it, under the next nonce
// in sequence. On success the sequence number advances; on any failure it
// is left unchanged.
func (c *Context) Seal(aad, pt []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.suite.aead.newCipher == nil {
		return nil, ErrInvalidConfig
	}
	if c.seq == c.maxSeq() {
		return nil, ErrMessageLimitReached
	}

	ct, err := c.suite.aead.seal(c.key, c.computeNonce(), aad, pt)
	if err != nil {
		return nil, err
	}
	c.seq++
	return ct, nil
}

// Open authenticates and decrypts ct under the next nonce in sequence. An
// authentication failure returns ErrOpen and leaves the sequence number
// unchanged — this Context fixes the RFC's ambiguity on that point at
// non-increment (§4.6, §9).
func (c *Context) Open(aad, ct []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.suite.aead.newCipher == nil {
		return nil, ErrInvalidConfig
	}
	if c.seq == c.maxSeq() {
		return nil, ErrMessageLimitReached
	}

	pt, err := c.suite.aead.open(c.key, c.computeNonce(), aad, ct)
	if err != nil {
		return nil, err
	}
	c.seq++
	return pt, nil
}

// Export derives length bytes of secret keying material bound to
// exporterContext (§4.6). It never touches the sequence number and remains
// usable after the Context is Exhausted.
func (c *Context) Export(exporterContext []byte, length int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, err := labeled.Expand(c.suite.kdf.newHash, c.exporterSecret, c.suite.id, "sec", exporterContext, length)
	if err != nil {
		return nil, fmt.Errorf("hpke: exporting %d bytes: %w", length, ErrCryptoFailure)
	}
	return out, nil
}

// Zero overwrites the Context's secret material in place. Callers that
// hold a Context past its useful lifetime SHOULD call this before letting
// it be garbage collected (§9); it is not required for correctness.
func (c *Context) Zero() {
	c.mu.Lock()
	defer c.mu.Unlock()
	zero(c.key)
	zero(c.nonceBase)
	zero(c.exporterSecret)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
