package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/randalmurphal/ugh/draft"
)

// GitHubName identifies the GitHub Issues tracker.
const GitHubName = "github"

// GitHubConfig configures the GitHub tracker.
type GitHubConfig struct {
	// Token is a personal access token with issues:write.
	Token string

	// BaseURL overrides the API endpoint, for GitHub Enterprise or tests.
	BaseURL string

	// HTTPClient is the transport under the token source.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// GitHub files tickets as GitHub issues. The board is "owner/repo".
type GitHub struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHub creates a GitHub tracker.
func NewGitHub(cfg GitHubConfig) (*GitHub, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClientOrDefault(cfg.HTTPClient))
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse GitHub base URL: %w", err)
		}
		client.BaseURL = base
	}

	return &GitHub{client: client, logger: cfg.Logger}, nil
}

// Name implements Tracker.
func (g *GitHub) Name() string {
	return GitHubName
}

// CreateTicket implements Tracker. The key is the upper-cased repository
// name joined to the issue number, e.g. "UGH-42".
func (g *GitHub) CreateTicket(ctx context.Context, d draft.Draft, board string) (TicketRef, error) {
	owner, repo, err := splitRepo(board)
	if err != nil {
		return TicketRef{}, &Error{Tracker: GitHubName, Kind: KindValidation, Err: err}
	}

	req := &github.IssueRequest{
		Title: github.String(d.Title),
		Body:  github.String(d.Description),
	}

	g.logger.Debug("creating github issue", "owner", owner, "repo", repo)
	issue, resp, err := g.client.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return TicketRef{}, &Error{Tracker: GitHubName, Kind: kindForStatus(status), Err: fmt.Errorf("create issue: %w", err)}
	}

	if issue.GetNumber() == 0 {
		return checkKey(GitHubName, TicketRef{URL: issue.GetHTMLURL()})
	}
	return checkKey(GitHubName, TicketRef{
		Key: strings.ToUpper(repo) + "-" + strconv.Itoa(issue.GetNumber()),
		URL: issue.GetHTMLURL(),
	})
}

// splitRepo parses "owner/repo".
func splitRepo(board string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(board), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q is not owner/repo", ErrInvalidBoard, board)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
