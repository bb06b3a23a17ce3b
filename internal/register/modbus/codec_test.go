// internal/register/modbus/codec_test.go
package modbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeString_PadsWithNUL(t *testing.T) {
	b, err := encodeString("abc", 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 'b', 'c', 0}, b)
	assert.Equal(t, "abc", decodeString(b))
}

func TestEncodeString_RejectsNonASCII(t *testing.T) {
	_, err := encodeString("caf\xe9", 4)
	assert.Error(t, err)
}

func TestEncodeUint_Widths(t *testing.T) {
	b, err := encodeUint(0xBEEF, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xBE, 0xEF}, b)

	_, err = encodeUint(0x10000, 1)
	assert.Error(t, err)

	b, err = encodeUint(1<<40, 4)
	require.NoError(t, err)
	n, err := decodeUint(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), n)
}

func TestDecodeUint_Overflow(t *testing.T) {
	_, err := decodeUint([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	assert.Error(t, err)
}

func TestSplitSpans(t *testing.T) {
	spans := splitSpans(10, 250, 125)
	assert.Equal(t, []span{
		{Address: 10, Quantity: 125, Offset: 0},
		{Address: 135, Quantity: 125, Offset: 250},
	}, spans)

	spans = splitSpans(0, 4, 123)
	assert.Equal(t, []span{{Address: 0, Quantity: 4, Offset: 0}}, spans)

	assert.Empty(t, splitSpans(0, 0, 123))
}

func TestPadEven(t *testing.T) {
	assert.Equal(t, []byte{1, 0}, padEven([]byte{1}))
	assert.Equal(t, []byte{1, 2}, padEven([]byte{1, 2}))
}
