package filename

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"plain", "holiday", 0, "holiday"},
		{"spaces", "my holiday photo", 0, "my-holiday-photo"},
		{"unsafe chars", `a<b>c:d"e/f\g|h?i*j`, 0, "a-b-c-d-e-f-g-h-i-j"},
		{"collapse dashes", "a -- b__c", 0, "a-b-c"},
		{"strip dots", "..hidden.", 0, "hidden"},
		{"empty", "   ", 0, ""},
		{"truncate", "abcdefghij", 5, "abcde"},
		{"truncate on rune boundary", "ééééé", 3, "é"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.in, tt.max))
		})
	}
}

func TestSanitize_DefaultLimit(t *testing.T) {
	got := Sanitize(strings.Repeat("x", 300), 0)
	require.Len(t, got, 120)
}

func TestWithExtension(t *testing.T) {
	require.Equal(t, "photo.png", WithExtension("photo", "image", ".png"))
	require.Equal(t, "image.jpg", WithExtension("", "image", "jpg"))
	require.Equal(t, "photo", WithExtension("photo", "image", ""))
}
