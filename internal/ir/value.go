package ir

import (
	"bytes"
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Value is a sealed interface over the identifier kinds a fact may hold.
// Only String, Int, Bool, and UUID implement it.
// NO float kind - floats have no exact equality and would break index lookups.
type Value interface {
	irValue() // Sealed - only these types implement it
	String() string
}

// String is a literal or interned string identifier (typically an attribute).
type String string

func (String) irValue() {}

// String returns the raw string without quoting.
func (s String) String() string { return string(s) }

// Int is an integer identifier. Always int64, never float64.
type Int int64

func (Int) irValue() {}

func (n Int) String() string { return strconv.FormatInt(int64(n), 10) }

// Bool is a boolean identifier.
type Bool bool

func (Bool) irValue() {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// UUID is an object identifier (typically an entity).
type UUID uuid.UUID

func (UUID) irValue() {}

func (u UUID) String() string { return uuid.UUID(u).String() }

// NewUUID wraps a uuid.UUID as a Value.
func NewUUID(u uuid.UUID) UUID {
	return UUID(u)
}

// Kind names used for ordering and for column encodings outside this package.
const (
	KindBool   = "bool"
	KindInt    = "int"
	KindString = "string"
	KindUUID   = "uuid"
)

// Kind returns the kind name of v, or "" for nil.
func Kind(v Value) string {
	switch v.(type) {
	case Bool:
		return KindBool
	case Int:
		return KindInt
	case String:
		return KindString
	case UUID:
		return KindUUID
	default:
		return ""
	}
}

// kindRank orders kinds for Compare. nil sorts before everything.
func kindRank(v Value) int {
	switch v.(type) {
	case Bool:
		return 1
	case Int:
		return 2
	case String:
		return 3
	case UUID:
		return 4
	default:
		return 0
	}
}

// Compare is a total order over Values.
// Values of different kinds order by kind rank (Bool < Int < String < UUID);
// values of the same kind order naturally (false < true, numeric, bytewise).
func Compare(a, b Value) int {
	if ra, rb := kindRank(a), kindRank(b); ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch x := a.(type) {
	case Bool:
		y := b.(Bool)
		switch {
		case x == y:
			return 0
		case !bool(x):
			return -1
		default:
			return 1
		}
	case Int:
		return cmp.Compare(x, b.(Int))
	case String:
		return strings.Compare(string(x), string(b.(String)))
	case UUID:
		y := b.(UUID)
		return bytes.Compare(x[:], y[:])
	default:
		return 0 // both nil
	}
}

// Equal reports whether a and b are the same identifier.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// ParseLiteral converts command-line or query text to a Value.
//
// Resolution order:
//   - "double quoted" text is always a String (quotes removed, escapes decoded);
//     text opening with a quote must also close with one
//   - true / false become Bool
//   - base-10 integers become Int
//   - canonical 36-character uuids become UUID
//   - anything else is a String
func ParseLiteral(s string) (Value, error) {
	if strings.HasPrefix(s, `"`) {
		if len(s) < 2 || !strings.HasSuffix(s, `"`) {
			return nil, fmt.Errorf("unterminated quoted literal %s", s)
		}
		unq, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("invalid quoted literal %s: %w", s, err)
		}
		return String(unq), nil
	}

	switch s {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n), nil
	}

	if u, ok := parseCanonicalUUID(s); ok {
		return UUID(u), nil
	}

	return String(s), nil
}

// MustParseLiteral is like ParseLiteral but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseLiteral(s string) Value {
	v, err := ParseLiteral(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromAny converts a decoded YAML/JSON scalar to a Value.
// Strings holding a canonical uuid become UUID; other strings stay String
// (numeric-looking strings are NOT converted, the decoder already typed them).
// Rejects null and floats.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not an identifier")
	case Value:
		return val, nil
	case uuid.UUID:
		return UUID(val), nil
	case string:
		if u, ok := parseCanonicalUUID(val); ok {
			return UUID(u), nil
		}
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return Int(val), nil
	case float64, float32:
		return nil, fmt.Errorf("floats are not identifiers: %v", val)
	default:
		return nil, fmt.Errorf("unsupported identifier type: %T", v)
	}
}

// parseCanonicalUUID accepts only the hyphenated 36-character form so that
// arbitrary 32-character hex strings stay strings.
func parseCanonicalUUID(s string) (uuid.UUID, bool) {
	if len(s) != 36 {
		return uuid.UUID{}, false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, false
	}
	return u, true
}

// FormatLiteral renders v so that ParseLiteral returns it unchanged.
// Strings are quoted only when the bare text would parse as another kind
// or would not survive whitespace tokenization.
func FormatLiteral(v Value) string {
	s, ok := v.(String)
	if !ok {
		if v == nil {
			return ""
		}
		return v.String()
	}
	text := string(s)
	if text == "" || strings.ContainsAny(text, " \t\r\n\"") || strings.HasPrefix(text, "?") || text == "_" {
		return strconv.Quote(text)
	}
	if parsed, err := ParseLiteral(text); err != nil || Kind(parsed) != KindString {
		return strconv.Quote(text)
	}
	return text
}

// Decode rebuilds a Value from a kind name and its String rendering.
// It is the inverse of (Kind(v), v.String()) and is used by column encodings.
func Decode(kind, text string) (Value, error) {
	switch kind {
	case KindString:
		return String(text), nil
	case KindInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode int %q: %w", text, err)
		}
		return Int(n), nil
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("decode bool %q: %w", text, err)
		}
		return Bool(b), nil
	case KindUUID:
		u, err := uuid.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("decode uuid %q: %w", text, err)
		}
		return UUID(u), nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}
