package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sealbox/internal/domain"
	messagesvc "sealbox/internal/services/message"
)

// send <group-id> [message]: encrypt and store a message, optionally with
// file attachments. An empty body with attachments is a valid message.
func sendCmd() *cobra.Command {
	var attachPaths []string
	cmd := &cobra.Command{
		Use:   "send <group-id> [message]",
		Short: "Encrypt and send a message to a group",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID := args[0]
			body := ""
			if len(args) == 2 {
				body = args[1]
			}
			if body == "" && len(attachPaths) == 0 {
				return fmt.Errorf("nothing to send: give a message or --attach")
			}
			if err := recoverGroupKey(cmd, groupID); err != nil {
				return err
			}

			drafts := make([]messagesvc.Draft, 0, len(attachPaths))
			for _, path := range attachPaths {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				drafts = append(drafts, messagesvc.Draft{
					Filename: filepath.Base(path),
					Kind:     kindForFile(path),
					Data:     data,
				})
			}

			rec, err := appCtx.Messages.Send(cmd.Context(), sess, groupID, body, drafts)
			if err != nil {
				return err
			}
			fmt.Printf("sent %s\n", rec.MessageID)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&attachPaths, "attach", nil, "file to encrypt and attach (repeatable)")
	return cmd
}

// kindForFile maps a filename extension onto the closed attachment kinds.
func kindForFile(path string) domain.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".ogg", ".wav", ".m4a":
		return domain.KindAudio
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return domain.KindImage
	case ".pdf":
		return domain.KindPDF
	case ".doc", ".docx", ".odt":
		return domain.KindWord
	default:
		return domain.KindText
	}
}
