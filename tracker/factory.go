package tracker

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/randalmurphal/ugh/config"
	"github.com/randalmurphal/ugh/jira"
)

// FromSettings builds the tracker selected by s.Tracker.
func FromSettings(s config.Settings, httpClient *http.Client, logger *slog.Logger) (Tracker, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch s.Tracker {
	case config.TrackerGitHub:
		return NewGitHub(GitHubConfig{Token: s.GitHubToken, HTTPClient: httpClient, Logger: logger})

	case config.TrackerGitLab:
		return NewGitLab(GitLabConfig{
			Token:      s.GitLabToken,
			BaseURL:    s.GitLabBaseURL,
			HTTPClient: httpClient,
			Logger:     logger,
		})

	case config.TrackerJira, "":
		version, ok := jira.ParseAPIVersion(s.JiraAPIVersion)
		if !ok {
			return nil, fmt.Errorf("%s: %w", config.KeyJiraAPIVersion, jira.ErrConfigAPIVersionInvalid)
		}
		client, err := jira.NewClient(jira.Config{
			URL:        s.JiraBaseURL,
			APIVersion: version,
			Email:      s.JiraEmail,
			Token:      s.JiraToken,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return NewJira(client, s.DefaultIssueType, logger), nil

	default:
		return nil, fmt.Errorf("unknown tracker %q", s.Tracker)
	}
}
