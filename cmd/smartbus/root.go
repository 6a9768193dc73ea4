package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smartbus",
		Short: "smartbus canvas server",
		Long: brand.Sprint("smartbus") + ": process diagram canvas server\n" +
			subtle.Sprint("Serves the canvas editor and keeps one canvas per browser session"),
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate("smartbus {{ .Version }}\n")

	root.AddCommand(
		serveCmd(),
		paletteCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "smartbus %s\n", version)
		},
	}
}
