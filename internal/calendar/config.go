// Package calendar exports upcoming subscription renewals, either to a
// Google Calendar or to an iCalendar file for other calendar apps.
package calendar

import (
	"fmt"
	"os"
	"time"
)

// Config holds the configuration for the Google Calendar writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	CalendarID         string
	CalendarName       string
	TimeZone           string
	Horizon            time.Duration
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeZone:      "Europe/London",
		Horizon:       365 * 24 * time.Hour,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// LoadFromEnv loads the configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	c.ClientID = os.Getenv("SUBTALLY_CALENDAR_CLIENT_ID")
	c.ClientSecret = os.Getenv("SUBTALLY_CALENDAR_CLIENT_SECRET")
	c.RefreshToken = os.Getenv("SUBTALLY_CALENDAR_REFRESH_TOKEN")

	// Service account path (alternative to OAuth2)
	c.ServiceAccountPath = os.Getenv("SUBTALLY_CALENDAR_SERVICE_ACCOUNT_PATH")

	c.CalendarID = os.Getenv("SUBTALLY_CALENDAR_ID")
	c.CalendarName = os.Getenv("SUBTALLY_CALENDAR_NAME")

	if c.ServiceAccountPath == "" && (c.ClientID == "" || c.ClientSecret == "") {
		return fmt.Errorf("missing Google Calendar authentication: provide either service account path or OAuth2 credentials")
	}

	if c.CalendarName == "" {
		c.CalendarName = "Subscription Renewals"
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("no authentication method configured")
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account")
	}

	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive")
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	return nil
}
