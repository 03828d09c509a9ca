package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderQRPNG(t *testing.T) {
	png, err := RenderQRPNG("Ticket: ABC123DE-F01, Seat: A7, Booking ID: 42")
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output should be a PNG image")
}

func TestRenderQRPNGEmptyPayload(t *testing.T) {
	_, err := RenderQRPNG("")
	assert.Error(t, err, "empty payload cannot be encoded")
}
