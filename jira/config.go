package jira

import (
	"net/http"
	"strings"
)

// AuthType represents the type of authentication to use.
type AuthType string

// Authentication types supported by the Jira client.
const (
	AuthAPIToken AuthType = "api_token" // Cloud: email + API token
	AuthPAT      AuthType = "pat"       // Server/DC: Personal Access Token
)

// Config holds the configuration for the Jira client.
type Config struct {
	// URL is the base URL of the Jira instance.
	// For Cloud: https://your-domain.atlassian.net
	// For Server: https://jira.your-company.com
	URL string

	// APIVersion specifies which API version to use.
	// "auto" (default) detects based on deployment type.
	APIVersion APIVersion

	// Email is required for api_token auth. Without it the token is sent
	// as a bearer PAT.
	Email string

	// Token is the API token (Cloud) or PAT (Server/DC).
	Token string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// AuthType reports which authentication scheme the config implies.
func (c *Config) AuthType() AuthType {
	if c.Email != "" {
		return AuthAPIToken
	}
	return AuthPAT
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return ErrConfigURLRequired
	}
	if c.Token == "" {
		return ErrConfigTokenRequired
	}
	if _, ok := ParseAPIVersion(string(c.APIVersion)); !ok {
		return ErrConfigAPIVersionInvalid
	}
	return nil
}

// ParseAPIVersion accepts "auto", "v2", "v3" and the bare numbers. Empty
// means auto.
func ParseAPIVersion(s string) (APIVersion, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return APIVersionAuto, true
	case "2", "v2":
		return APIVersionV2, true
	case "3", "v3":
		return APIVersionV3, true
	}
	return "", false
}
