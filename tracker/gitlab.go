package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/xanzy/go-gitlab"

	"github.com/randalmurphal/ugh/draft"
)

// GitLabName identifies the GitLab Issues tracker.
const GitLabName = "gitlab"

// GitLabConfig configures the GitLab tracker.
type GitLabConfig struct {
	// Token is a personal access token with the api scope.
	Token string

	// BaseURL is the instance URL. Empty means gitlab.com.
	BaseURL string

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// GitLab files tickets as GitLab issues. The board is a project path
// ("group/project") or numeric project ID.
type GitLab struct {
	client *gitlab.Client
	logger *slog.Logger
}

// NewGitLab creates a GitLab tracker.
func NewGitLab(cfg GitLabConfig) (*GitLab, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("GitLab token is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// Ticket creation is not idempotent, so the client's retries are off.
	opts := []gitlab.ClientOptionFunc{
		gitlab.WithCustomRetryMax(0),
		gitlab.WithHTTPClient(httpClientOrDefault(cfg.HTTPClient)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(cfg.BaseURL))
	}

	client, err := gitlab.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}
	return &GitLab{client: client, logger: cfg.Logger}, nil
}

// Name implements Tracker.
func (g *GitLab) Name() string {
	return GitLabName
}

// CreateTicket implements Tracker. The key is the upper-cased project name
// joined to the issue IID, e.g. "API-7".
func (g *GitLab) CreateTicket(ctx context.Context, d draft.Draft, board string) (TicketRef, error) {
	project := strings.Trim(strings.TrimSpace(board), "/")
	if project == "" {
		return TicketRef{}, &Error{Tracker: GitLabName, Kind: KindValidation, Err: fmt.Errorf("%w: empty project", ErrInvalidBoard)}
	}

	opts := &gitlab.CreateIssueOptions{
		Title:       gitlab.Ptr(d.Title),
		Description: gitlab.Ptr(d.Description),
	}

	g.logger.Debug("creating gitlab issue", "project", project)
	issue, resp, err := g.client.Issues.CreateIssue(project, opts, gitlab.WithContext(ctx))
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return TicketRef{}, &Error{Tracker: GitLabName, Kind: kindForStatus(status), Err: fmt.Errorf("create issue: %w", err)}
	}

	if issue == nil || issue.IID == 0 {
		return checkKey(GitLabName, TicketRef{})
	}
	return checkKey(GitLabName, TicketRef{
		Key: projectName(issue.WebURL, project) + "-" + strconv.Itoa(issue.IID),
		URL: issue.WebURL,
	})
}

// projectName returns the upper-cased project name, read from the issue's
// web URL ("https://host/group/project/-/issues/7") and falling back to
// the last segment of the board.
func projectName(webURL, board string) string {
	if before, _, ok := strings.Cut(webURL, "/-/issues/"); ok {
		if i := strings.LastIndex(before, "/"); i >= 0 && i < len(before)-1 {
			return strings.ToUpper(before[i+1:])
		}
	}
	if i := strings.LastIndex(board, "/"); i >= 0 {
		board = board[i+1:]
	}
	return strings.ToUpper(board)
}
