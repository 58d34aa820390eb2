package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func recoveryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "Export or use an identity recovery phrase",
	}
	cmd.AddCommand(recoveryExportCmd(), recoveryImportCmd())
	return cmd
}

func recoveryExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the recovery phrase for your identity key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlockSession(cmd); err != nil {
				return err
			}
			phrase, err := appCtx.Identity.ExportRecoveryPhrase(cmd.Context(), sess)
			if err != nil {
				return err
			}
			color.Yellow("keep this phrase offline; anyone holding it owns your identity")
			fmt.Println(phrase)
			return nil
		},
	}
}

func recoveryImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <phrase...>",
		Short: "Restore your identity key and set a new password",
		Args:  cobra.MinimumNArgs(12),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			phrase := strings.Join(args, " ")
			pw, err := readPassword("new password: ")
			if err != nil {
				return err
			}
			if err := appCtx.Identity.ImportRecoveryPhrase(cmd.Context(), user, phrase, pw); err != nil {
				return err
			}
			color.Green("identity re-wrapped under the new password")
			return nil
		},
	}
}
