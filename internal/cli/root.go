// Package cli wires configuration, credentials, the snapshot cache, and
// the Trello client into the pocketboard commands.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nhle/pocketboard/internal/app"
	"github.com/nhle/pocketboard/internal/credential"
	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/nav"
	"github.com/nhle/pocketboard/internal/source/trello"
)

// App holds the state shared by every command.
type App struct {
	ConfigPath string
	LogPath    string

	cfg *model.AppConfig

	// openCredentials returns the credential store. Tests replace it to
	// avoid the system keyring.
	openCredentials func() (*credential.Store, error)
}

// NewRootCmd builds the pocketboard command tree.
func NewRootCmd() *cobra.Command {
	a := &App{openCredentials: credential.Open}
	return newRootCmd(a)
}

func newRootCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pocketboard",
		Short:        "Browse and update a Trello list from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # First run: store credentials and pick a list
  pocketboard setup

  # Start the interactive board
  pocketboard

  # Scriptable commands
  pocketboard list --offline
  pocketboard show <card-id>
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Printf("loading .env: %v", err)
			}
			cfg, err := model.LoadConfig(a.ConfigPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", model.DefaultConfigPath(), "path to the config file")
	cmd.PersistentFlags().StringVar(&a.LogPath, "log", "", "log file for the interactive board (default: <cache dir>/pocketboard.log)")

	cmd.AddCommand(newSetupCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newCommentCmd(a))
	cmd.AddCommand(newCreateCmd(a))
	cmd.AddCommand(newCacheCmd(a))

	return cmd
}

func runTUI(cmd *cobra.Command, a *App) error {
	logPath := a.LogPath
	if logPath == "" {
		logPath = filepath.Join(a.cfg.Cache.Dir, "pocketboard.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := tea.LogToFile(logPath, "pocketboard")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()
	logger := log.Default()

	b, err := openBoard(a, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	state := model.NewAppState()
	controller := nav.New(state, a.cfg.Display.CardsPerPage, a.cfg.Display.MaxTextLength)
	session := app.NewSession(state, controller, b.Adapter,
		app.WithLogger(logger),
		app.WithIdleTimeout(a.cfg.Display.IdleTimeout()),
	)

	ctx := cmd.Context()
	m := app.New(ctx, session,
		app.WithCardURL(trello.CardURL),
		app.WithTheme(a.cfg.Display.Theme),
		app.WithPollInterval(a.cfg.Display.PollInterval()),
	)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
