// Dailycard - Deterministic Daily Content Selection and Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dailycard

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/dailycard/internal/history"
	"github.com/tomtom215/dailycard/internal/logging"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateImage(); err != nil {
		return err
	}
	if err := c.validateClient(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateHistory() error {
	backend := history.Backend(c.History.Backend)
	valid := false
	for _, b := range history.Backends() {
		if b == backend {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("HISTORY_BACKEND must be one of %v, got %q", history.Backends(), c.History.Backend)
	}
	if backend != history.BackendMemory && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("HISTORY_PATH is required for the %s backend", backend)
	}
	return nil
}

func (c *Config) validateProviders() error {
	if c.Providers.TextTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %v", c.Providers.TextTimeout)
	}
	if c.Providers.MinInterval < 0 {
		return fmt.Errorf("PROVIDER_MIN_INTERVAL must not be negative, got %v", c.Providers.MinInterval)
	}
	if err := validateOptionalURL(c.Providers.HitokotoURL, "HITOKOTO_URL"); err != nil {
		return err
	}
	if err := validateOptionalURL(c.Providers.QuotableURL, "QUOTABLE_URL"); err != nil {
		return err
	}
	for theme, urls := range c.Providers.Feeds {
		for _, u := range urls {
			if err := validateHTTPURL(u, "feed for "+theme); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Config) validateImage() error {
	if c.Image.Timeout <= 0 {
		return fmt.Errorf("IMAGE_TIMEOUT must be positive, got %v", c.Image.Timeout)
	}
	if c.Image.MaxRedirects < 0 {
		return fmt.Errorf("IMAGE_MAX_REDIRECTS must not be negative, got %d", c.Image.MaxRedirects)
	}
	if err := validateOptionalURL(c.Image.PicsumURL, "PICSUM_URL"); err != nil {
		return err
	}
	return validateOptionalURL(c.Image.UnsplashURL, "UNSPLASH_URL")
}

func (c *Config) validateClient() error {
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("DAILYCARD_TIMEOUT must be positive, got %v", c.Client.Timeout)
	}
	return validateOptionalURL(c.Client.ProxyURL, "DAILYCARD_PROXY_URL")
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func validateOptionalURL(raw, name string) error {
	if raw == "" {
		return nil
	}
	return validateHTTPURL(raw, name)
}

// validateHTTPURL requires an absolute http(s) URL with a host.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}
