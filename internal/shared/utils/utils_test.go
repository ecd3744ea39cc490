package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Flower":               "flower",
		"Pre-rolls & Blunts":   "pre-rolls-blunts",
		"  Açaí   Gummies  ":   "acai-gummies",
		"Front Counter -- TV!": "front-counter-tv",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), in)
	}
}

func TestParseOptionalUUID(t *testing.T) {
	id, err := ParseOptionalUUID("  ")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = ParseOptionalUUID("not-a-uuid")
	assert.Error(t, err)

	id, err = ParseOptionalUUID("6f1c1d2e-3c7b-4b8e-9a55-0f2f3c1d9e11")
	require.NoError(t, err)
	require.NotNil(t, id)
}

func TestTrimToNil(t *testing.T) {
	assert.Nil(t, TrimToNil("   "))
	assert.Equal(t, "Gelato", *TrimToNil(" Gelato "))
}

func TestPagination(t *testing.T) {
	page, limit := Pagination("", "", 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = Pagination("3", "500", 20, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)
}
