package main

import (
	"github.com/spf13/cobra"

	"github.com/buscar-app/buscar/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse listings interactively",
		Long: `Open the interactive terminal UI: filter and page through listings,
toggle favorites and the compare list, and inspect listing details.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(cmd.Context(), tui.Config{
				Session: a.session,
				Store:   a.store,
				Client:  a.client,
			})
		},
	}
}
