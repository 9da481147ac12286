package book

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRawRoundTrip(t *testing.T) {
	m := map[uint64]int8{1: 5, 2: -5, 1000000: 0}

	data, err := encode(m, false)
	require.NoError(t, err)
	require.Equal(t, formatRaw, data[0])

	got, err := decode(data)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestEncodeDecodeZstdRoundTrip(t *testing.T) {
	m := map[uint64]int8{7: 18, 8: -18}

	data, err := encode(m, true)
	require.NoError(t, err)
	require.Equal(t, formatZstd, data[0])

	got, err := decode(data)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	_, err := decode([]byte{0xFF, 0, 0, 0, 0})
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	_, err := decode([]byte{formatRaw, 1, 0, 0, 0})
	require.Error(t, err)
}
