// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/orchestrator"
	"github.com/tomtom215/dailycard/internal/selection"
	"github.com/tomtom215/dailycard/internal/server"
)

// PickOptions holds flags for pick and refresh.
type PickOptions struct {
	*RootOptions
	Theme     string
	Date      string
	ProxyURL  string
	LocalOnly bool
	External  bool
	Images    bool
}

// NewPickCommand prints the day's card.
func NewPickCommand(rootOpts *RootOptions) *cobra.Command {
	return newCardCommand(rootOpts, false)
}

// NewRefreshCommand re-rolls the day's text without replacing the daily pick.
func NewRefreshCommand(rootOpts *RootOptions) *cobra.Command {
	return newCardCommand(rootOpts, true)
}

func newCardCommand(rootOpts *RootOptions, refresh bool) *cobra.Command {
	opts := &PickOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Print the card for a theme and day",
		Long: `Print the deterministic card for a theme and day.

The proxy is asked first when one is configured (--proxy or
DAILYCARD_PROXY_URL); the local catalog answers otherwise or when the proxy
fails. Asking again on the same day returns the same card.

Examples:
  dailycard pick --theme movies
  dailycard pick --theme 文学 --date 2024-01-01
  dailycard pick --proxy http://localhost:8787 --ext --images --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCard(cmd, opts, refresh)
		},
	}
	if refresh {
		cmd.Use = "refresh"
		cmd.Short = "Re-roll the card text for a theme and day"
		cmd.Long = `Re-roll the card text with a different salt. The daily pick is kept,
so a later "dailycard pick" still returns the original card.

Examples:
  dailycard refresh --theme movies`
	}

	cmd.Flags().StringVarP(&opts.Theme, "theme", "t", "", "theme or alias (default: content.default_theme)")
	cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "day as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.ProxyURL, "proxy", "", "content proxy base URL (overrides DAILYCARD_PROXY_URL)")
	cmd.Flags().BoolVar(&opts.LocalOnly, "local", false, "never contact the proxy")
	cmd.Flags().BoolVar(&opts.External, "ext", false, "ask the proxy for an external quote")
	cmd.Flags().BoolVar(&opts.Images, "images", false, "fetch an illustration through the proxy")
	return cmd
}

func runCard(cmd *cobra.Command, opts *PickOptions, refresh bool) error {
	cfg := opts.Config

	var date time.Time
	if opts.Date != "" {
		d, err := selection.ParseDateKey(opts.Date, time.Local)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --date", err)
		}
		date = d
	}

	local, err := server.OpenClientLocal(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open local catalog", err)
	}
	defer local.Close()

	var remote orchestrator.Remote
	proxyURL := opts.ProxyURL
	if proxyURL == "" {
		proxyURL = cfg.Client.ProxyURL
	}
	if proxyURL != "" && !opts.LocalOnly {
		client, err := orchestrator.NewClient(proxyURL, cfg.Client.Timeout)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid proxy url", err)
		}
		remote = client
	}

	o := orchestrator.New(local.Engine, remote).WithDefaultTheme(cfg.Content.DefaultTheme)
	card, err := o.Card(cmd.Context(), orchestrator.Options{
		Theme:    opts.Theme,
		Date:     date,
		Refresh:  refresh,
		External: opts.External || cfg.Client.External,
		Images:   opts.Images || cfg.Client.Images,
	})
	if errors.Is(err, catalog.ErrNoData) {
		return WrapExitError(ExitFailure, "nothing to show", err)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to resolve card", err)
	}

	return opts.formatter(cmd).Success(card, orchestrator.RenderCard(card))
}
