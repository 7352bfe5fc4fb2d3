package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/pkg/filters"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// formatHistory lists every history entry with the cursor's entry marked.
func formatHistory(v editor.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	b.WriteByte('\n')
	for _, item := range v.History {
		idx := dimStyle.Render(fmt.Sprintf("%3d", item.Index))
		if item.Current {
			fmt.Fprintf(&b, "%s %s %s\n", idx, currentStyle.Render(">"), currentStyle.Render(item.Label))
			continue
		}
		fmt.Fprintf(&b, "%s   %s\n", idx, item.Label)
	}
	return b.String()
}

// formatCatalog lists the sliders a recipe's set steps may target.
func formatCatalog(sliders []filters.Slider) string {
	width := 0
	for _, s := range sliders {
		width = max(width, len(s.Key))
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Parameters"))
	b.WriteByte('\n')
	for _, s := range sliders {
		rng := fmt.Sprintf("%s..%s", s.Readout(s.Min), s.Readout(s.Max))
		fmt.Fprintf(&b, "  %-*s  %s  %s\n",
			width, s.Key,
			valueStyle.Render(rng),
			dimStyle.Render("default "+s.Readout(s.Default)),
		)
	}
	return b.String()
}
