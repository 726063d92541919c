package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nemukerja/nemukerja-tui/internal/api"
	"github.com/nemukerja/nemukerja-tui/internal/app"
	"github.com/nemukerja/nemukerja-tui/internal/credential"
	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/jobs"
	"github.com/nemukerja/nemukerja-tui/internal/logging"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/notify"
	"github.com/nemukerja/nemukerja-tui/internal/store"
	appsync "github.com/nemukerja/nemukerja-tui/internal/sync"
	"github.com/nemukerja/nemukerja-tui/internal/theme"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("nemukerja", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var (
		configPath  string
		baseURL     string
		role        string
		saveSession string
		logout      bool
		writeConfig bool
	)
	fs.StringVar(&configPath, "config", model.DefaultConfigPath(), "Path to the YAML configuration file")
	fs.StringVar(&baseURL, "base-url", "", "Override server.base_url")
	fs.StringVar(&role, "role", "", "Override server.role (applicant or company)")
	fs.StringVar(&saveSession, "save-session", "", "Store a session cookie in the keyring and exit")
	fs.BoolVar(&logout, "logout", false, "Remove the stored session cookie and exit")
	fs.BoolVar(&writeConfig, "write-config", false, "Write the effective configuration to -config and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if role != "" {
		cfg.Server.Role = role
	}

	if writeConfig {
		if err := model.SaveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", configPath)
		return nil
	}

	if saveSession != "" || logout {
		return manageSession(saveSession, logout)
	}

	log, closer, err := logging.New(cfg.Log, "nemukerja")
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer closer.Close()
	logging.RedirectStdLog(log)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	session := loadSession(log)
	client := api.NewClient(
		cfg.Server.BaseURL,
		session,
		api.WithTimeout(time.Duration(cfg.Server.TimeoutSec)*time.Second),
		api.WithLogger(log),
	)
	page := model.NewPageContext(cfg.Server.BaseURL, model.ParseRole(cfg.Server.Role), client.HasSession())

	lang, err := store.PreferenceOr(ctx, st, store.PrefLanguage, cfg.Display.Locale)
	if err != nil {
		log.Warn().Err(err).Msg("reading language preference")
	}
	locales := i18n.NewBroadcaster(i18n.Parse(lang))

	themeName, err := store.PreferenceOr(ctx, st, store.PrefTheme, cfg.Display.Theme)
	if err != nil {
		log.Warn().Err(err).Msg("reading theme preference")
	}
	theme.Apply(themeName)

	center := notify.NewCenter(client, notify.WithLogger(log))
	poller := appsync.New(center, time.Duration(cfg.Display.PollIntervalSec)*time.Second, log)
	defer poller.Stop()

	log.Info().
		Str("base_url", page.BaseURL).
		Str("role", string(page.Role)).
		Bool("authenticated", page.Authenticated).
		Str("locale", locales.Current().String()).
		Msg("starting")

	m := app.New(app.Deps{
		Page:      page,
		Center:    center,
		Jobs:      jobs.NewService(client, log),
		Submitter: client,
		Poller:    poller,
		Store:     st,
		Locales:   locales,
		Log:       log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// loadSession resolves the session cookie. A broken keyring is logged
// and treated as no session so the board can still be browsed.
func loadSession(log zerolog.Logger) string {
	vault, err := credential.Open()
	if err != nil {
		log.Warn().Err(err).Msg("keyring unavailable, using environment only")
	}
	session, err := vault.Session(os.Getenv)
	if err != nil {
		log.Warn().Err(err).Msg("reading session from keyring")
		return ""
	}
	return session
}

func manageSession(value string, logout bool) error {
	if logout {
		if err := credential.Delete(credential.SessionKey); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "session removed")
		return nil
	}
	if err := credential.Set(credential.SessionKey, value); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "session saved")
	return nil
}
