package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sealbox/internal/crypto"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an identity keypair protected by a password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			pw, err := readPassword("choose a password: ")
			if err != nil {
				return err
			}
			rec, err := appCtx.Identity.Register(cmd.Context(), user, pw)
			if err != nil {
				return err
			}
			color.Green("identity created for %s", user)
			fmt.Printf("fingerprint: %s\n", crypto.Fingerprint(rec.PublicKey))
			return nil
		},
	}
}

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <user>",
		Short: "Show the public key fingerprint of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := appCtx.Identity.Fingerprint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(fp)
			return nil
		},
	}
}
