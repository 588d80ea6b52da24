package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Setting keys.
const (
	KeyTracker           = "tracker"
	KeyJiraBaseURL       = "jira_base_url"
	KeyJiraEmail         = "jira_email"
	KeyJiraToken         = "jira_token"
	KeyJiraAPIVersion    = "jira_api_version"
	KeyDefaultProjectKey = "default_project_key"
	KeyDefaultIssueType  = "default_issue_type"
	KeyGitHubToken       = "github_token"
	KeyGitLabToken       = "gitlab_token"
	KeyGitLabBaseURL     = "gitlab_base_url"
	KeyLLMProvider       = "llm_provider"
	KeyLLMAPIKey         = "llm_api_key"
	KeyLLMModel          = "llm_model"
	KeyLLMBaseURL        = "llm_base_url"
	KeyCacheTTL          = "cache_ttl"
	KeyIncludeDiff       = "include_diff"
	KeyMaxDiffBytes      = "max_diff_bytes"
)

// Trackers.
const (
	TrackerJira   = "jira"
	TrackerGitHub = "github"
	TrackerGitLab = "gitlab"
)

// Keys lists every setting in display order.
var Keys = []string{
	KeyTracker,
	KeyJiraBaseURL,
	KeyJiraEmail,
	KeyJiraToken,
	KeyJiraAPIVersion,
	KeyDefaultProjectKey,
	KeyDefaultIssueType,
	KeyGitHubToken,
	KeyGitLabToken,
	KeyGitLabBaseURL,
	KeyLLMProvider,
	KeyLLMAPIKey,
	KeyLLMModel,
	KeyLLMBaseURL,
	KeyCacheTTL,
	KeyIncludeDiff,
	KeyMaxDiffBytes,
}

// Defaults are the built-in values.
var Defaults = map[string]string{
	KeyTracker:          TrackerJira,
	KeyJiraAPIVersion:   "auto",
	KeyDefaultIssueType: "Task",
	KeyLLMProvider:      "gemini",
	KeyLLMModel:         "gemini-2.5-flash",
	KeyCacheTTL:         "24h",
	KeyIncludeDiff:      "true",
	KeyMaxDiffBytes:     "12000",
}

// secretKeys are masked when displayed.
var secretKeys = map[string]bool{
	KeyJiraToken:   true,
	KeyGitHubToken: true,
	KeyGitLabToken: true,
	KeyLLMAPIKey:   true,
}

// IsSecret reports whether key holds a credential.
func IsSecret(key string) bool {
	return secretKeys[key]
}

// Settings is the immutable configuration for one run.
type Settings struct {
	Tracker           string
	JiraBaseURL       string
	JiraEmail         string
	JiraToken         string
	JiraAPIVersion    string
	DefaultProjectKey string
	DefaultIssueType  string
	GitHubToken       string
	GitLabToken       string
	GitLabBaseURL     string
	LLMProvider       string
	LLMAPIKey         string
	LLMModel          string
	LLMBaseURL        string
	CacheTTL          time.Duration // Zero disables expiry
	IncludeDiff       bool
	MaxDiffBytes      int

	// Dir is the configuration directory holding the config file, the
	// draft cache and prompt overrides.
	Dir string
}

// NewResolverFor returns a resolver over the ugh keys, defaults and
// environment prefix, reading dir/config.yaml.
func NewResolverFor(dir string, cfg ResolverConfig) *Resolver {
	cfg.EnvPrefix = EnvPrefix
	cfg.Path = filepath.Join(dir, FileName)
	cfg.Defaults = Defaults
	cfg.ValidKeys = Keys
	return NewResolver(cfg)
}

// Load resolves the settings stored in dir, applying environment overrides.
func Load(dir string, cfg ResolverConfig) (Settings, *Resolved, error) {
	resolved := NewResolverFor(dir, cfg).Resolve()
	s, err := FromResolved(resolved)
	if err != nil {
		return Settings{}, resolved, err
	}
	s.Dir = dir
	return s, resolved, nil
}

// FromResolved converts resolved values into Settings.
func FromResolved(r *Resolved) (Settings, error) {
	s := Settings{
		Tracker:           strings.ToLower(strings.TrimSpace(r.Get(KeyTracker))),
		JiraBaseURL:       strings.TrimRight(strings.TrimSpace(r.Get(KeyJiraBaseURL)), "/"),
		JiraEmail:         strings.TrimSpace(r.Get(KeyJiraEmail)),
		JiraToken:         strings.TrimSpace(r.Get(KeyJiraToken)),
		JiraAPIVersion:    strings.TrimSpace(r.Get(KeyJiraAPIVersion)),
		DefaultProjectKey: strings.TrimSpace(r.Get(KeyDefaultProjectKey)),
		DefaultIssueType:  strings.TrimSpace(r.Get(KeyDefaultIssueType)),
		GitHubToken:       strings.TrimSpace(r.Get(KeyGitHubToken)),
		GitLabToken:       strings.TrimSpace(r.Get(KeyGitLabToken)),
		GitLabBaseURL:     strings.TrimSpace(r.Get(KeyGitLabBaseURL)),
		LLMProvider:       strings.TrimSpace(r.Get(KeyLLMProvider)),
		LLMAPIKey:         strings.TrimSpace(r.Get(KeyLLMAPIKey)),
		LLMModel:          strings.TrimSpace(r.Get(KeyLLMModel)),
		LLMBaseURL:        strings.TrimSpace(r.Get(KeyLLMBaseURL)),
	}

	switch s.Tracker {
	case TrackerJira, TrackerGitHub, TrackerGitLab:
	default:
		return Settings{}, fmt.Errorf("%s %q is not one of jira, github, gitlab (from %s)",
			KeyTracker, s.Tracker, r.Source(KeyTracker))
	}

	var err error
	if s.CacheTTL, err = parseDuration(r, KeyCacheTTL); err != nil {
		return Settings{}, err
	}
	if s.IncludeDiff, err = parseBool(r, KeyIncludeDiff); err != nil {
		return Settings{}, err
	}
	if s.MaxDiffBytes, err = parseInt(r, KeyMaxDiffBytes); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Missing lists the required settings that are unset for creating a
// ticket on board. The LLM key is never required; without it drafts come
// from the local heuristic.
func (s Settings) Missing(board string) []string {
	var missing []string
	need := func(key, value string) {
		if value == "" {
			missing = append(missing, key)
		}
	}

	switch s.Tracker {
	case TrackerGitHub:
		need(KeyGitHubToken, s.GitHubToken)
	case TrackerGitLab:
		need(KeyGitLabToken, s.GitLabToken)
	default:
		need(KeyJiraBaseURL, s.JiraBaseURL)
		// Server/Data Center on v2 may authenticate with a bare PAT.
		if !strings.EqualFold(strings.TrimPrefix(strings.ToLower(s.JiraAPIVersion), "v"), "2") {
			need(KeyJiraEmail, s.JiraEmail)
		}
		need(KeyJiraToken, s.JiraToken)
		need(KeyDefaultIssueType, s.DefaultIssueType)
	}

	if board == "" {
		need(KeyDefaultProjectKey, s.DefaultProjectKey)
	}
	return missing
}

// Board returns override when set, else the default project key.
func (s Settings) Board(override string) string {
	if b := strings.TrimSpace(override); b != "" {
		return b
	}
	return s.DefaultProjectKey
}

// CachePath returns the draft cache file path.
func (s Settings) CachePath(fileName string) string {
	return filepath.Join(s.Dir, fileName)
}

// PromptDir returns the directory searched for prompt overrides.
func (s Settings) PromptDir() string {
	return filepath.Join(s.Dir, PromptsDir)
}

// Mask hides a secret for display: values longer than 6 characters keep
// their first and last 3, shorter ones are fully hidden.
func Mask(value string) string {
	switch {
	case value == "":
		return "<not set>"
	case len(value) > 6:
		return value[:3] + "***" + value[len(value)-3:]
	default:
		return "***"
	}
}

// Display returns value formatted for `config show`.
func Display(key, value string) string {
	if value == "" {
		return "<not set>"
	}
	if IsSecret(key) {
		return Mask(value)
	}
	return value
}

func parseDuration(r *Resolved, key string) (time.Duration, error) {
	v := strings.TrimSpace(r.Get(key))
	if v == "" || v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s %q is not a duration like 24h (from %s)", key, v, r.Source(key))
	}
	return d, nil
}

func parseBool(r *Resolved, key string) (bool, error) {
	v := strings.TrimSpace(r.Get(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s %q is not true or false (from %s)", key, v, r.Source(key))
	}
	return b, nil
}

func parseInt(r *Resolved, key string) (int, error) {
	v := strings.TrimSpace(r.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s %q is not a non-negative integer (from %s)", key, v, r.Source(key))
	}
	return n, nil
}

// ValidateValue checks value for key before it is saved.
func ValidateValue(key, value string) error {
	r := NewResolver(ResolverConfig{Defaults: map[string]string{key: value}}).Resolve()
	switch key {
	case KeyTracker:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case TrackerJira, TrackerGitHub, TrackerGitLab:
			return nil
		}
		return fmt.Errorf("%s %q is not one of jira, github, gitlab", key, value)
	case KeyJiraAPIVersion:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "", "auto", "2", "v2", "3", "v3":
			return nil
		}
		return fmt.Errorf("%s %q is not one of auto, v2, v3", key, value)
	case KeyCacheTTL:
		_, err := parseDuration(r, key)
		return err
	case KeyIncludeDiff:
		_, err := parseBool(r, key)
		return err
	case KeyMaxDiffBytes:
		_, err := parseInt(r, key)
		return err
	}
	return nil
}
