package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateJellyfin(); err != nil {
		return err
	}
	if err := c.validateCleanup(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateJellyfin() error {
	if strings.TrimSpace(c.Jellyfin.URL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/winnow/config.toml"
		}
		return fmt.Errorf("jellyfin.url is required. Edit %s (create with 'winnow config init')", defaultPath)
	}
	if _, err := url.Parse(c.Jellyfin.URL); err != nil {
		return fmt.Errorf("jellyfin.url is not a valid URL: %w", err)
	}
	if strings.TrimSpace(c.Jellyfin.APIKey) == "" {
		return errors.New("jellyfin.api_key is required. Set JELLYFIN_API_KEY env var or edit the config file")
	}
	return nil
}

func (c *Config) validateCleanup() error {
	if strings.TrimSpace(c.Cleanup.ProviderKey) == "" {
		return errors.New("cleanup.provider_key must be set")
	}
	if c.Cleanup.DirDeleteThreshold <= 0 {
		return errors.New("cleanup.dir_delete_threshold_bytes must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
