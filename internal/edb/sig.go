package edb

import (
	"fmt"
	"strings"
)

// Sig names a scan pattern by which of e, a, v are bound.
// Letter case in the name marks the position: uppercase bound, lowercase free.
type Sig uint8

const (
	sigV Sig = 1 << iota
	sigA
	sigE
)

// Supported scan signatures.
const (
	Sigeav Sig = 0
	SigeAv     = sigA
	SigeAV     = sigA | sigV
	SigEav     = sigE
	SigEAv     = sigE | sigA
	SigEAV     = sigE | sigA | sigV
)

// Signatures lists every supported signature in a stable order.
var Signatures = []Sig{Sigeav, SigEAV, SigEAv, SigEav, SigeAV, SigeAv}

// SigOf derives the signature for the given bound positions.
func SigOf(eBound, aBound, vBound bool) Sig {
	var s Sig
	if eBound {
		s |= sigE
	}
	if aBound {
		s |= sigA
	}
	if vBound {
		s |= sigV
	}
	return s
}

// Valid reports whether Scan answers this signature.
func (s Sig) Valid() bool {
	switch s {
	case Sigeav, SigEAV, SigEAv, SigEav, SigeAV, SigeAv:
		return true
	}
	return false
}

// Bound reports which positions the signature binds.
func (s Sig) Bound() (e, a, v bool) {
	return s&sigE != 0, s&sigA != 0, s&sigV != 0
}

func (s Sig) String() string {
	if s > SigEAV {
		return fmt.Sprintf("Sig(%d)", uint8(s))
	}
	e, a, v := s.Bound()
	var b strings.Builder
	b.WriteByte(letter('e', e))
	b.WriteByte(letter('a', a))
	b.WriteByte(letter('v', v))
	return b.String()
}

func letter(c byte, upper bool) byte {
	if upper {
		return c - 'a' + 'A'
	}
	return c
}

// ParseSig parses a three-letter pattern such as "eAv".
// Shapes that are well formed but unsupported (eaV, EaV) parse successfully;
// callers check Valid.
func ParseSig(text string) (Sig, error) {
	if len(text) != 3 {
		return 0, fmt.Errorf("parse sig %q: want three letters", text)
	}
	var s Sig
	for i, want := range []byte("eav") {
		switch text[i] {
		case want:
		case want - 'a' + 'A':
			s |= sigE >> i
		default:
			return 0, fmt.Errorf("parse sig %q: position %d must be %c or %c", text, i, want, want-'a'+'A')
		}
	}
	return s, nil
}
