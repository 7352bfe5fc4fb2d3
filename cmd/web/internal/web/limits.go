package web

import "strconv"

// formatLimit renders n bytes in the K/M suffix form echo's BodyLimit parses,
// rounding up to the next whole unit.
func formatLimit(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	if n%mb == 0 || n >= 16*mb {
		return strconv.FormatInt((n+mb-1)/mb, 10) + "M"
	}
	return strconv.FormatInt((n+kb-1)/kb, 10) + "K"
}
