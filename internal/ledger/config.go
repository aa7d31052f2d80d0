// Package ledger persists recognized activities to the competition
// spreadsheet and answers duplicate-identity queries against it.
package ledger

import (
	"fmt"
	"os"
	"time"
)

// Config holds the configuration for the spreadsheet-backed ledger.
type Config struct {
	ServiceAccountJSON string
	ServiceAccountPath string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	SpreadsheetID      string
	RetryAttempts      int
	RetryDelay         time.Duration
	HistoryTTL         time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RetryAttempts: 3,
		RetryDelay:    time.Second,
		HistoryTTL:    5 * time.Minute,
	}
}

// LoadFromEnv fills credentials and spreadsheet settings from environment
// variables. The inline service account JSON takes precedence over the key
// file, which takes precedence over OAuth2 credentials.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("GOOGLE_SERVICE_ACCOUNT"); v != "" {
		c.ServiceAccountJSON = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
		c.ServiceAccountPath = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"); v != "" {
		c.RefreshToken = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"); v != "" {
		c.SpreadsheetID = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasServiceAccount := c.ServiceAccountJSON != "" || c.ServiceAccountPath != ""
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""

	if !hasServiceAccount && !hasOAuth {
		return fmt.Errorf("no authentication method configured: provide a service account or OAuth2 credentials")
	}

	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is required")
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	return nil
}
