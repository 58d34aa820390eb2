package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Create groups and manage member access",
	}
	cmd.AddCommand(groupCreateCmd(), groupGrantCmd(), groupUnlockCmd())
	return cmd
}

func groupCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a group keyed to a fresh keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlockSession(cmd); err != nil {
				return err
			}
			rec, err := appCtx.Groups.Create(cmd.Context(), sess)
			if err != nil {
				return err
			}
			color.Green("group created")
			fmt.Printf("group id: %s\n", rec.GroupID)
			return nil
		},
	}
}

func groupGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <group-id> <member>",
		Short: "Seal the group key to a member's identity key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, member := args[0], args[1]
			if err := recoverGroupKey(cmd, groupID); err != nil {
				return err
			}
			if _, err := appCtx.Groups.Grant(cmd.Context(), sess, groupID, member); err != nil {
				return err
			}
			fmt.Printf("access granted to %s\n", member)
			return nil
		},
	}
}

func groupUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <group-id>",
		Short: "Recover the group key from your member envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := recoverGroupKey(cmd, args[0]); err != nil {
				return err
			}
			fmt.Println("group key recovered")
			return nil
		},
	}
}
