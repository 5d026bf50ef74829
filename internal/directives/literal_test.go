package directives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		lit  string
		want string
		ok   bool
	}{
		{`"plain"`, "plain", true},
		{`"with \"quotes\""`, `with "quotes"`, true},
		{`"tab\tnewline\n"`, "tab\tnewline\n", true},
		{`"\x41\u{1F600}"`, "A\U0001F600", true},
		{`"it\'s"`, "it's", true},
		{`r"raw \n"`, `raw \n`, true},
		{`r##"a "# b"##`, `a "# b`, true},
		{`"bad \q"`, "", false},
		{`"unterminated`, "", false},
		{`r#"x"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			got, ok := Unquote(tt.lit)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{"", "Vec<u8>", `a "b" \c`, "line\nbreak", "bell\x07"} {
		quoted := Quote(s)
		got, ok := Unquote(quoted)
		assert.True(t, ok, quoted)
		assert.Equal(t, s, got)
	}
	assert.Equal(t, `"WasmEncodedResult<Foo>"`, Quote("WasmEncodedResult<Foo>"))
}
