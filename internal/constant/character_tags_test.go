package constant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCharacterTag(t *testing.T) {
	assert.True(t, IsValidCharacterTag("fantasy"))
	assert.True(t, IsValidCharacterTag("slice-of-life"))
	assert.False(t, IsValidCharacterTag("Fantasy"))
	assert.False(t, IsValidCharacterTag("dragons"))
	assert.False(t, IsValidCharacterTag(""))
}

func TestParseTagList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"valid list", `["fantasy","sci-fi"]`, []string{"fantasy", "sci-fi"}},
		{"single tag", `["anime"]`, []string{"anime"}},
		{"empty string", ``, []string{}},
		{"empty array", `[]`, []string{}},
		{"null", `null`, []string{}},
		{"one invalid entry degrades all", `["fantasy","dragons"]`, []string{}},
		{"case sensitive", `["Fantasy"]`, []string{}},
		{"malformed json", `["fantasy"`, []string{}},
		{"not an array", `"fantasy"`, []string{}},
		{"number entries", `[1,2]`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagList(tt.raw))
		})
	}
}
