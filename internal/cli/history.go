// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/dailycard/internal/catalog"
	"github.com/tomtom215/dailycard/internal/selection"
	"github.com/tomtom215/dailycard/internal/server"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Theme string
	Date  string
}

// HistoryResult is the recorded state for one theme.
type HistoryResult struct {
	Theme     string        `json:"theme"`
	DateKey   string        `json:"date_key"`
	UsedIDs   []string      `json:"used_ids"`
	DailyPick *catalog.Item `json:"daily_pick,omitempty"`
}

// NewHistoryCommand shows used ids and the cached daily pick.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the pick history of a theme",
		Long: `Show the ids already picked for a theme and the cached daily pick for a day.

Examples:
  dailycard history --theme movies
  dailycard history --theme 电影 --date 2024-01-01 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Theme, "theme", "t", "", "theme or alias (default: content.default_theme)")
	cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "day as YYYY-MM-DD (default: today)")
	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	theme := strings.TrimSpace(opts.Theme)
	if theme == "" {
		theme = opts.Config.Content.DefaultTheme
	}
	date := time.Now()
	if opts.Date != "" {
		d, err := selection.ParseDateKey(opts.Date, time.Local)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --date", err)
		}
		date = d
	}

	local, err := server.OpenClientLocal(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history", err)
	}
	defer local.Close()

	ctx := cmd.Context()
	key := catalog.Key(theme)
	result := HistoryResult{
		Theme:   key,
		DateKey: selection.DateKey(date),
		UsedIDs: local.History.UsedIDs(ctx, key),
	}
	if pick, ok := local.History.DailyPick(ctx, key, result.DateKey); ok {
		result.DailyPick = &pick
	}

	return opts.formatter(cmd).Success(result, formatHistory(result))
}

func formatHistory(r HistoryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "theme:      %s\n", r.Theme)
	if r.DailyPick != nil {
		fmt.Fprintf(&b, "daily pick: %s (%s)\n", r.DailyPick.ID, r.DateKey)
	} else {
		fmt.Fprintf(&b, "daily pick: none for %s\n", r.DateKey)
	}
	fmt.Fprintf(&b, "used ids:   %d", len(r.UsedIDs))
	for _, id := range r.UsedIDs {
		fmt.Fprintf(&b, "\n  %s", id)
	}
	return b.String()
}
