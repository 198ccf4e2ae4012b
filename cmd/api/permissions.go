package main

import (
	"fmt"

	"vet-practice/internal/domain/access"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Print the role permission table as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolver := access.NewResolver(access.DefaultTable())

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()

		return enc.Encode(resolver.Matrix())
	},
}

var canCmd = &cobra.Command{
	Use:   "can ROLE RESOURCE ACTION",
	Short: "Evaluate one access decision against the permission table",
	Example: `  vetpractice can NURSE patients delete
  vetpractice can CEO invoices edit`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, ok := access.ParseAction(args[2])
		if !ok {
			return fmt.Errorf("unknown action %q (want list, show, create, edit or delete)", args[2])
		}

		resolver := access.NewResolver(access.DefaultTable())
		d := resolver.Can(access.ParseRole(args[0]), args[1], action)

		out := "denied"
		if d.Permitted {
			out = "permitted"
		}
		if d.Reason != "" {
			out += " (" + d.Reason + ")"
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}
