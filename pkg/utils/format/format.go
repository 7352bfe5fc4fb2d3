// Package format holds small display helpers shared by templates and the CLI.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Bytes returns a human-readable byte size (e.g. "1.5 MB").
func Bytes(b int64) string {
	if b < 0 {
		b = 0
	}
	return humanize.Bytes(uint64(b))
}

// ParseBytes parses sizes such as "32MB", "512 KiB" or a bare byte count.
func ParseBytes(s string) (int64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse byte size %q: %w", s, err)
	}
	return int64(n), nil
}

// Dimensions formats an image size as "W × H".
func Dimensions(w, h int) string {
	return fmt.Sprintf("%s × %s", humanize.Comma(int64(w)), humanize.Comma(int64(h)))
}

// Itoa formats an int as a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

// Truncate returns s truncated to max runes with "..." suffix.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// PlainText strips any markup from user-supplied text such as an upload's
// original filename before it is shown in the UI.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
