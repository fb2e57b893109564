// Package encoding implements the raw, unpadded base64 codec used to print
// HPKE keys in human-readable form.
package encoding

import (
	"encoding/base64"
	"errors"
	"strings"
)

var b64 = base64.RawStdEncoding.Strict()

// EncodeToString encodes b as unpadded standard base64.
func EncodeToString(b []byte) string {
	return b64.EncodeToString(b)
}

// DecodeString decodes s as unpadded standard base64. Unlike the stdlib
// decoder, it rejects embedded newlines outright rather than silently
// ignoring them, since the caller's trust in the decoded bytes shouldn't
// depend on whitespace it never asked to strip.
func DecodeString(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\n\r") {
		return nil, errors.New("unexpected newline character")
	}
	return b64.DecodeString(s)
}
