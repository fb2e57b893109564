// Package labeled implements the HPKE labeled-Extract and labeled-Expand
// wrappers that sit between the engine and raw HKDF, domain-separating
// every derivation by version tag, suite identifier, and role label.
package labeled

import (
	"encoding/binary"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Version is the "HPKE-v1" domain-separation prefix mixed into every
// labeled call. It is exactly seven bytes.
const Version = "HPKE-v1"

// Extract returns LabeledExtract(salt, suiteID, label, ikm): the
// HKDF-Extract of salt and Version || suiteID || label || ikm.
func Extract(newHash func() hash.Hash, salt, suiteID []byte, label string, ikm []byte) []byte {
	labeledIKM := make([]byte, 0, len(Version)+len(suiteID)+len(label)+len(ikm))
	labeledIKM = append(labeledIKM, Version...)
	labeledIKM = append(labeledIKM, suiteID...)
	labeledIKM = append(labeledIKM, label...)
	labeledIKM = append(labeledIKM, ikm...)
	return hkdf.Extract(newHash, labeledIKM, salt)
}

// Expand returns LabeledExpand(prk, suiteID, label, info, length): the
// HKDF-Expand of prk with info set to be16(length) || Version || suiteID ||
// label || info, truncated to length bytes.
func Expand(newHash func() hash.Hash, prk, suiteID []byte, label string, info []byte, length int) ([]byte, error) {
	labeledInfo := make([]byte, 0, 2+len(Version)+len(suiteID)+len(label)+len(info))
	labeledInfo = binary.BigEndian.AppendUint16(labeledInfo, uint16(length))
	labeledInfo = append(labeledInfo, Version...)
	labeledInfo = append(labeledInfo, suiteID...)
	labeledInfo = append(labeledInfo, label...)
	labeledInfo = append(labeledInfo, info...)

	// An empty output is a valid Expand result (see SPEC_FULL.md §9); avoid
	// reading zero bytes from the HKDF stream.
	if length == 0 {
		return []byte{}, nil
	}

	out := make([]byte, length)
	r := hkdf.Expand(newHash, prk, labeledInfo)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
