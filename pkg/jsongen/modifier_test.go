package jsongen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		wantEnd int
	}{
		{name: "no chain", text: `, "b": 1`, want: nil, wantEnd: 0},
		{name: "single", text: `.zfill(3),`, want: []string{".zfill(3)"}, wantEnd: 9},
		{name: "chain", text: `.zfill(3).to_string()}`, want: []string{".zfill(3)", ".to_string()"}, wantEnd: 21},
		{name: "args trimmed", text: `.zfill( 4 )`, want: []string{".zfill(4)"}, wantEnd: 11},
		{name: "dot without call stays literal", text: `.exr"`, want: nil, wantEnd: 0},
		{name: "chain then literal dot", text: `.to_int().json`, want: []string{".to_int()"}, wantEnd: 9},
		{name: "dot then digit", text: `.5`, want: nil, wantEnd: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods, end, err := parseModifiers(tt.text, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnd, end)

			var got []string
			for _, m := range mods {
				got = append(got, m.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseModifiers_Errors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		sentinel error
	}{
		{name: "unknown", text: `.upper()`, sentinel: ErrUnknownModifier},
		{name: "unknown unterminated", text: `.upper(`, sentinel: ErrUnknownModifier},
		{name: "known unterminated", text: `.zfill(3`, sentinel: ErrMalformedModifier},
		{name: "zfill two args", text: `.zfill(3,4)`, sentinel: ErrMalformedModifier},
		{name: "zfill negative", text: `.zfill(-1)`, sentinel: ErrMalformedModifier},
		{name: "zfill word", text: `.zfill(abc)`, sentinel: ErrMalformedModifier},
		{name: "to_int with arg", text: `.to_int(1)`, sentinel: ErrMalformedModifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseModifiers("x"+tt.text, 1)
			require.ErrorIs(t, err, tt.sentinel)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, 1, e.Pos)
		})
	}
}

func TestReferenceFormat(t *testing.T) {
	mods := func(text string) []Modifier {
		t.Helper()
		m, _, err := parseModifiers(text, 0)
		require.NoError(t, err)

		return m
	}

	tests := []struct {
		name  string
		chain string
		value int64
		want  string
	}{
		{name: "bare", chain: "", value: 7, want: "7"},
		{name: "zfill", chain: ".zfill(3)", value: 5, want: "005"},
		{name: "zfill wider value", chain: ".zfill(2)", value: 1234, want: "1234"},
		{name: "zfill negative keeps sign", chain: ".zfill(3)", value: -5, want: "-05"},
		{name: "to_string", chain: ".to_string()", value: 0, want: `"0"`},
		{name: "zfill then to_string", chain: ".zfill(3).to_string()", value: 5, want: `"005"`},
		{name: "to_string then zfill", chain: ".to_string().zfill(4)", value: 12, want: `"0012"`},
		{name: "to_string twice", chain: ".to_string().to_string()", value: 3, want: `"3"`},
		{name: "zfill then to_int", chain: ".zfill(3).to_int()", value: 5, want: "5"},
		{name: "to_string then to_int", chain: ".to_string().to_int()", value: 42, want: "42"},
		{name: "full chain", chain: ".zfill(4).to_int().to_string()", value: 9, want: `"9"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Reference{Modifiers: mods(tt.chain)}
			got, err := ref.format(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZfill(t *testing.T) {
	assert.Equal(t, "0042", zfill("42", 4))
	assert.Equal(t, "+007", zfill("+7", 4))
	assert.Equal(t, "42", zfill("42", 0))
	assert.Equal(t, "000", zfill("", 3))
}

func TestScanner(t *testing.T) {
	text := `{"a": $frame(<2>), "b": "$", "c": $Frame_2}`

	markers := scanMarkers(text)
	require.Equal(t, []int{6, 25, 34}, markers)

	assert.Equal(t, 12, scanIdentifier(text, 6))
	assert.Equal(t, "frame", text[7:12])
	assert.Equal(t, 26, scanIdentifier(text, 25), "lone sigil has no identifier")
	assert.Equal(t, "Frame_2", text[35:scanIdentifier(text, 34)])

	assert.Empty(t, scanMarkers(`{"plain": true}`))
}
