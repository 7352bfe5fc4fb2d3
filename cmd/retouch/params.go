package main

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"thirdcoast.systems/retouch/pkg/filters"
)

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List the adjustable parameters and their ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sliders := append(filters.Catalog(), filters.RotationSlider())
			_, err := lipgloss.Fprint(cmd.OutOrStdout(), formatCatalog(sliders))
			return err
		},
	}
}
