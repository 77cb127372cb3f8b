package ir

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_WithinKind(t *testing.T) {
	u1 := UUID(uuid.MustParse("00000000-0000-0000-0000-000000000001"))
	u2 := UUID(uuid.MustParse("00000000-0000-0000-0000-000000000002"))

	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"equal strings", String("age"), String("age"), 0},
		{"string order", String("age"), String("name"), -1},
		{"int order", Int(-5), Int(3), -1},
		{"int equal", Int(30), Int(30), 0},
		{"bool order", Bool(false), Bool(true), -1},
		{"bool equal", Bool(true), Bool(true), 0},
		{"uuid order", u2, u1, 1},
		{"uuid equal", u1, u1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a), "Compare must be antisymmetric")
		})
	}
}

func TestCompare_AcrossKinds(t *testing.T) {
	u := UUID(uuid.MustParse("00000000-0000-0000-0000-000000000001"))
	vals := []Value{u, String("30"), Int(30), Bool(true)}

	slices.SortFunc(vals, Compare)

	assert.Equal(t, []Value{Bool(true), Int(30), String("30"), u}, vals)
}

func TestEqual_DistinguishesKinds(t *testing.T) {
	assert.False(t, Equal(String("30"), Int(30)))
	assert.False(t, Equal(String("true"), Bool(true)))
	assert.True(t, Equal(Int(7), Int(7)))
}

func TestParseLiteral(t *testing.T) {
	u := uuid.MustParse("0192d1d4-3c1e-7c55-8f4e-5b2a9a6b1c01")

	tests := []struct {
		in   string
		want Value
	}{
		{"alice", String("alice")},
		{"30", Int(30)},
		{"-4", Int(-4)},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{`"30"`, String("30")},
		{`"true"`, String("true")},
		{`"with space"`, String("with space")},
		{u.String(), UUID(u)},
		{"0192d1d43c1e7c558f4e5b2a9a6b1c01", String("0192d1d43c1e7c558f4e5b2a9a6b1c01")},
		{"3.5", String("3.5")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLiteral(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLiteral_BadQuote(t *testing.T) {
	for _, in := range []string{`"unterminated\"`, `"bad`, `"`, `"a"b"`} {
		_, err := ParseLiteral(in)
		assert.Error(t, err, in)
	}

	got, err := ParseLiteral(`bad"`)
	require.NoError(t, err)
	assert.Equal(t, String(`bad"`), got, "only a leading quote opens a quoted literal")
}

func TestFromAny(t *testing.T) {
	u := uuid.MustParse("0192d1d4-3c1e-7c55-8f4e-5b2a9a6b1c01")

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"string", "alice", String("alice")},
		{"numeric string stays string", "30", String("30")},
		{"int", 30, Int(30)},
		{"int64", int64(-2), Int(-2)},
		{"bool", true, Bool(true)},
		{"uuid string", u.String(), UUID(u)},
		{"uuid value", u, UUID(u)},
		{"value passthrough", Int(9), Int(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny_Rejects(t *testing.T) {
	for _, in := range []any{nil, 1.5, float32(2), []any{1}, map[string]any{}} {
		_, err := FromAny(in)
		assert.Error(t, err, "input %#v", in)
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindString, Kind(String("a")))
	assert.Equal(t, KindInt, Kind(Int(1)))
	assert.Equal(t, KindBool, Kind(Bool(false)))
	assert.Equal(t, KindUUID, Kind(NewUUID(uuid.New())))
	assert.Equal(t, "", Kind(nil))
}

func TestValueString(t *testing.T) {
	u := uuid.MustParse("0192d1d4-3c1e-7c55-8f4e-5b2a9a6b1c01")

	assert.Equal(t, "alice", String("alice").String())
	assert.Equal(t, "-12", Int(-12).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, u.String(), UUID(u).String())
}

func TestFormatLiteral_RoundTrip(t *testing.T) {
	u := uuid.MustParse("0192d1d4-3c1e-7c55-8f4e-5b2a9a6b1c01")
	values := []Value{
		String("alice"),
		String("30"),
		String("true"),
		String(u.String()),
		String("two words"),
		String(""),
		String("?"),
		String(`say "hi"`),
		Int(-7),
		Bool(false),
		UUID(u),
	}

	for _, v := range values {
		text := FormatLiteral(v)
		back, err := ParseLiteral(text)
		require.NoError(t, err, text)
		assert.True(t, Equal(v, back), "%q round-tripped to %#v", text, back)
	}

	assert.Equal(t, "alice", FormatLiteral(String("alice")))
	assert.Equal(t, `"30"`, FormatLiteral(String("30")))
}

func TestDecode(t *testing.T) {
	u := uuid.MustParse("0192d1d4-3c1e-7c55-8f4e-5b2a9a6b1c01")
	for _, v := range []Value{String("x"), String("42"), Int(42), Bool(true), UUID(u)} {
		back, err := Decode(Kind(v), v.String())
		require.NoError(t, err)
		assert.True(t, Equal(v, back))
	}

	_, err := Decode("float", "1.5")
	assert.Error(t, err)
	_, err = Decode(KindInt, "abc")
	assert.Error(t, err)
}
