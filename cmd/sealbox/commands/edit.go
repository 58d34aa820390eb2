package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// edit <message-id> <new-body>: re-encrypt a new body under the same
// message id. Sender only, within the edit window.
func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <message-id> <new-body>",
		Short: "Edit a recently sent message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlockSession(cmd); err != nil {
				return err
			}
			if err := appCtx.Messages.Edit(cmd.Context(), sess, args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("edited")
			return nil
		},
	}
}

// rm <message-id>: hard-delete a message you sent.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <message-id>",
		Short: "Delete a message you sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			if err := appCtx.Messages.Delete(cmd.Context(), sess, args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
