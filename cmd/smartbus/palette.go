package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"smartbus/internal/config"
	"smartbus/internal/palette"
	"smartbus/internal/panel"
)

func paletteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the node templates offered in the sidebar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			pal, err := cfg.BuildPalette()
			if err != nil {
				return err
			}
			printPalette(cmd.OutOrStdout(), pal)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default: search "+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG, /etc)")
	return cmd
}

func printPalette(w io.Writer, pal *palette.Palette) {
	for _, sec := range pal.Sections() {
		fmt.Fprintln(w, brand.Sprint(sec.Title))
		for _, item := range sec.Items {
			fmt.Fprintf(w, "  %-12s %s %s\n",
				item.Title,
				good.Sprint(panel.TypeLabel(item.NodeType)),
				subtle.Sprintf("(icon %s)", item.Icon))
		}
	}
}
