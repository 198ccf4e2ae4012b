package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title        vet-practice API
// @version      1.0
// @description  Role-gated, tenant-scoped CRUD for a veterinary practice.
// @BasePath     /

var configPath string

var rootCmd = &cobra.Command{
	Use:           "vetpractice",
	Short:         "Veterinary practice back office API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (env VETPRACTICE_* overrides)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(permissionsCmd)
	rootCmd.AddCommand(canCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
