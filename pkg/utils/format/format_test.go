package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	require.Equal(t, "0 B", Bytes(-5))
	require.Equal(t, "512 B", Bytes(512))
	require.Equal(t, "1.5 MB", Bytes(1_500_000))
}

func TestParseBytes(t *testing.T) {
	n, err := ParseBytes("32MiB")
	require.NoError(t, err)
	require.Equal(t, int64(32<<20), n)

	n, err = ParseBytes(" 1024 ")
	require.NoError(t, err)
	require.Equal(t, int64(1024), n)

	_, err = ParseBytes("lots")
	require.Error(t, err)
}

func TestDimensions(t *testing.T) {
	require.Equal(t, "1,920 × 1,080", Dimensions(1920, 1080))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	require.Equal(t, "ééé...", Truncate("éééééééé", 6))
}

func TestPlainText(t *testing.T) {
	require.Equal(t, "photo.png", PlainText(`<b>photo.png</b>`))
	require.NotContains(t, PlainText(`<script>alert(1)</script>x.png`), "<script")
}
