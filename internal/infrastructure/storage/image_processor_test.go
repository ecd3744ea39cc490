package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 40, G: 160, B: 90, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageProcessor_ValidateImage(t *testing.T) {
	p := NewImageProcessor()

	format, err := p.ValidateImage(samplePNG(t, 20, 10))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, err = p.ValidateImage([]byte("definitely not an image"))
	assert.Error(t, err)

	p.MaxSize = 10
	_, err = p.ValidateImage(samplePNG(t, 20, 10))
	assert.ErrorContains(t, err, "exceeds")
}

func TestImageProcessor_ProcessImageFitsVariants(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.ProcessImage(samplePNG(t, 1200, 800))
	require.NoError(t, err)
	require.Len(t, out, len(Variants))

	for name, size := range Variants {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(out[name]))
		require.NoError(t, err, name)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, size, cfg.Width, name)
		assert.LessOrEqual(t, cfg.Height, size, name)
	}
}
