package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// read <group-id>: decrypt and print one page of group history. Messages
// that cannot be decrypted render with their sentinel instead of failing
// the listing.
func readCmd() *cobra.Command {
	var (
		cursor string
		limit  int
		locked bool
	)
	cmd := &cobra.Command{
		Use:   "read <group-id>",
		Short: "Decrypt and display a group's message history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID := args[0]
			if err := requireUser(); err != nil {
				return err
			}
			if !locked {
				// Best effort: without an envelope the history still lists,
				// every message showing the locked sentinel.
				_ = recoverGroupKey(cmd, groupID)
			}

			msgs, next, err := appCtx.Messages.Read(cmd.Context(), sess, groupID, cursor, limit)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				stamp := m.CreatedAt.Local().Format("2006-01-02 15:04")
				suffix := ""
				if m.Edited {
					suffix = " (modifié)"
				}
				switch {
				case m.Locked:
					fmt.Printf("%s %s: %s%s\n", stamp, m.SenderID, color.YellowString(m.Body), suffix)
				case m.Unreadable:
					fmt.Printf("%s %s: %s%s\n", stamp, m.SenderID, color.RedString(m.Body), suffix)
				default:
					fmt.Printf("%s %s: %s%s\n", stamp, m.SenderID, m.Body, suffix)
				}
				for _, att := range m.Attachments {
					if att.Unreadable {
						fmt.Printf("    [%s] %s %s\n", att.Kind, att.Filename, color.RedString("(illisible)"))
						continue
					}
					fmt.Printf("    [%s] %s (%d bytes)\n", att.Kind, att.Filename, len(att.Data))
				}
			}
			if next != "" {
				fmt.Printf("next cursor: %s\n", next)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "resume listing from this cursor")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 50)")
	cmd.Flags().BoolVar(&locked, "locked", false, "list without recovering the group key")
	return cmd
}
