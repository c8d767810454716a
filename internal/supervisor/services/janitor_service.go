// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package services

import (
	"context"
	"time"

	"github.com/tomtom215/dailycard/internal/logging"
)

// DefaultJanitorInterval is how often expired state is swept.
const DefaultJanitorInterval = time.Minute

// CleanupTask removes expired entries from one in-memory structure and
// reports how many it dropped.
type CleanupTask struct {
	Name string
	Run  func() int
}

// JanitorService periodically sweeps expired rate limit windows and response
// cache entries so idle keys do not accumulate.
type JanitorService struct {
	interval time.Duration
	tasks    []CleanupTask
	name     string
}

// NewJanitorService sweeps tasks every interval. A non-positive interval uses
// DefaultJanitorInterval.
func NewJanitorService(interval time.Duration, tasks ...CleanupTask) *JanitorService {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &JanitorService{
		interval: interval,
		tasks:    tasks,
		name:     "janitor",
	}
}

// Serve sweeps on every tick until ctx is canceled.
func (j *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs every task once and returns the total number of removed entries.
func (j *JanitorService) Sweep(ctx context.Context) int {
	total := 0
	for _, task := range j.tasks {
		if task.Run == nil {
			continue
		}
		n := task.Run()
		total += n
		if n > 0 {
			logging.CtxDebug(ctx).Str("task", task.Name).Int("removed", n).Msg("Janitor sweep")
		}
	}
	return total
}

func (j *JanitorService) String() string {
	return j.name
}
