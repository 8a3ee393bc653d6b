package app

import (
	"context"
	"fmt"

	"github.com/pcornet/peloton/internal/account"
	"github.com/pcornet/peloton/internal/catalog"
	"github.com/pcornet/peloton/internal/config"
	"github.com/pcornet/peloton/internal/ledger"
	"github.com/pcornet/peloton/internal/prefs"
	"github.com/pcornet/peloton/internal/raceapi"
	"github.com/pcornet/peloton/internal/session"
	"github.com/pcornet/peloton/internal/ui"
)

// Options configure the peloton application.
type Options struct {
	ConfigPath  string // empty uses default ~/.config/peloton/config.toml
	PrefsPath   string // empty uses default ~/.config/peloton/prefs.toml
	SessionPath string // empty uses default ~/.config/peloton/session.toml
	APIURL      string // overrides the configured API base URL
	PageSize    int    // races per catalog page; zero uses the configured value
}

// Run boots the peloton TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PageSize > 0 {
		cfg.PageSize = opts.PageSize
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := raceapi.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init race API client: %w", err)
	}

	store := catalog.NewStore(client, cfg.PageSize)

	sessionPath := opts.SessionPath
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	accounts := account.NewManager(client, sessionPath)

	// The ledger adjusts catalog slot counts as registrations change.
	led := ledger.New(client, store)
	if user, ok := accounts.Current(); ok {
		led.SetUser(&user)
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Catalog:   store,
		Ledger:    led,
		Account:   accounts,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
