package cli

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/ui/setup"
)

func newSetupCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Store Trello credentials and choose the list to browse",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.openCredentials()
			if err != nil {
				return err
			}

			v := setup.FromConfig(a.cfg, nil)
			if existing, err := cs.Load(); err == nil {
				v = setup.FromConfig(a.cfg, &existing)
			}

			if err := setup.NewForm(v, 80).RunWithContext(cmd.Context()); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled.")
					return nil
				}
				return err
			}

			creds := v.Apply(a.cfg)
			if err := cs.Save(creds); err != nil {
				return err
			}
			if err := model.SaveConfig(a.ConfigPath, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved configuration to %s\n", a.ConfigPath)

			return checkConnection(cmd, a)
		},
	}
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored Trello credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.openCredentials()
			if err != nil {
				return err
			}
			if err := cs.Forget(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed.")
			return nil
		},
	}
}

func newCheckCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the credentials against the Trello API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConnection(cmd, a)
		},
	}
}

func checkConnection(cmd *cobra.Command, a *App) error {
	b, err := openBoard(a, log.New(io.Discard, "", 0))
	if err != nil {
		return err
	}
	defer b.Close()

	name, err := b.TestConnection(cmd.Context())
	if err != nil {
		return withRemedy(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Connected as @%s\n", name)
	return nil
}
