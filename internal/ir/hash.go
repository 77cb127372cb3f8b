package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainFact prefixes fact identity hashes. The version suffix allows a
// future algorithm migration.
const DomainFact = "eavstore/fact/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FactID computes the content-addressed id of an (e, a, v) triple.
// Multiplicity and provenance are NOT part of the id: the same triple
// retracted and re-asserted keeps its id.
func FactID(e, a, v Value) (string, error) {
	canonical, err := MarshalCanonical([]Value{e, a, v})
	if err != nil {
		return "", fmt.Errorf("FactID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFact, canonical), nil
}

// MustFactID is like FactID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFactID(e, a, v Value) string {
	id, err := FactID(e, a, v)
	if err != nil {
		panic(err)
	}
	return id
}
