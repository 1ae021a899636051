package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/hackscout/internal/cli"
	"github.com/cloo-solutions/hackscout/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hackscoutd",
		Short: "Hackscout daemon and CLI",
		Long:  "Hackscout analyzes hackathon attendee lists: profile enrichment, influence ranking, conversation starters, background matching and team suggestions",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.AnalyzeCmd())
	rootCmd.AddCommand(admin.PostCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
