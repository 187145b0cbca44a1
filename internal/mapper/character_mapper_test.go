package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeTags(t *testing.T) {
	assert.Equal(t, "[]", EncodeTags(nil))
	assert.Equal(t, "[]", EncodeTags([]string{}))
	assert.Equal(t, `["fantasy","sci-fi"]`, EncodeTags([]string{"fantasy", "sci-fi"}))
}

func TestDecodeTags(t *testing.T) {
	assert.Equal(t, []string{}, DecodeTags(""))
	assert.Equal(t, []string{}, DecodeTags("null"))
	assert.Equal(t, []string{}, DecodeTags("{broken"))
	assert.Equal(t, []string{"fantasy"}, DecodeTags(`["fantasy"]`))
}
