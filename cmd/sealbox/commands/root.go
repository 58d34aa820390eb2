package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sealbox/internal/app"
	"sealbox/internal/session"
)

var (
	home       string
	configPath string
	backendURL string
	user       string
	password   string

	appCtx *app.App
	sess   *session.Cache
)

func Execute() error {
	root := &cobra.Command{
		Use:           "sealbox",
		Short:         "Group-keyed end-to-end encrypted messaging",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if cfg.Home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				cfg.Home = filepath.Join(dir, ".sealbox")
			}
			if backendURL != "" {
				cfg.Backend = backendURL
			}
			if cfg.Backend == "" {
				if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
					return err
				}
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			appCtx, err = app.Wire(cfg, log)
			if err != nil {
				return err
			}
			if user != "" {
				sess = session.New(user)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if sess != nil {
				sess.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.sealbox)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "yaml config file")
	root.PersistentFlags().StringVar(&backendURL, "backend", "", "remote storage API base URL")
	root.PersistentFlags().StringVarP(&user, "user", "u", "", "acting user id")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "account password (prompted if omitted)")

	root.AddCommand(
		registerCmd(),
		fingerprintCmd(),
		groupCmd(),
		sendCmd(),
		readCmd(),
		editCmd(),
		rmCmd(),
		recoveryCmd(),
	)
	return root.Execute()
}

// requireUser guards commands that act on behalf of an account.
func requireUser() error {
	if user == "" || sess == nil {
		return fmt.Errorf("user required (-u)")
	}
	return nil
}

// readPassword returns -p when given, otherwise prompts without echo.
func readPassword(prompt string) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// unlockSession unlocks the identity key into the session cache.
func unlockSession(cmd *cobra.Command) error {
	if err := requireUser(); err != nil {
		return err
	}
	if sess.Unlocked() {
		return nil
	}
	pw, err := readPassword("password: ")
	if err != nil {
		return err
	}
	return appCtx.Identity.Unlock(cmd.Context(), sess, pw)
}

// recoverGroupKey makes the group key available in the session, unlocking
// the identity first if needed.
func recoverGroupKey(cmd *cobra.Command, groupID string) error {
	if err := unlockSession(cmd); err != nil {
		return err
	}
	return appCtx.Groups.Recover(cmd.Context(), sess, groupID)
}
