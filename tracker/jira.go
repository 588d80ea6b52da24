package tracker

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/randalmurphal/ugh/draft"
	devhttp "github.com/randalmurphal/ugh/http"
	"github.com/randalmurphal/ugh/jira"
)

// JiraName identifies the Jira tracker.
const JiraName = "jira"

// Jira files tickets through the Jira REST API.
type Jira struct {
	client    *jira.Client
	issueType string
	logger    *slog.Logger
}

// NewJira wraps client. issueType names the Jira issue type, e.g. "Task".
func NewJira(client *jira.Client, issueType string, logger *slog.Logger) *Jira {
	if logger == nil {
		logger = slog.Default()
	}
	if issueType == "" {
		issueType = "Task"
	}
	return &Jira{client: client, issueType: issueType, logger: logger}
}

// Name implements Tracker.
func (j *Jira) Name() string {
	return JiraName
}

// CreateTicket implements Tracker.
func (j *Jira) CreateTicket(ctx context.Context, d draft.Draft, board string) (TicketRef, error) {
	project := strings.ToUpper(strings.TrimSpace(board))
	if !jira.ValidateProjectKey(project) {
		return TicketRef{}, &Error{Tracker: JiraName, Kind: KindValidation, Err: errors.Join(ErrInvalidBoard, jira.ErrProjectKeyInvalid)}
	}

	version := j.client.ResolveAPIVersion(ctx)
	req := &jira.CreateIssueRequest{
		Fields: jira.CreateIssueFields{
			Project:     jira.ProjectRef{Key: project},
			IssueType:   jira.IssueTypeRef{Name: j.issueType},
			Summary:     d.Title,
			Description: jira.RenderDescription(version, d.Description),
		},
	}

	j.logger.Debug("creating jira issue", "project", project, "api_version", version,
		"cloud", j.client.IsCloud(), "issue_type", j.issueType)
	resp, err := j.client.CreateIssue(ctx, req)
	if err != nil {
		return TicketRef{}, &Error{Tracker: JiraName, Kind: classifyJira(err), Err: err}
	}

	if resp == nil || strings.TrimSpace(resp.Key) == "" {
		return checkKey(JiraName, TicketRef{})
	}
	return checkKey(JiraName, TicketRef{Key: resp.Key, URL: j.client.BrowseURL(resp.Key)})
}

func classifyJira(err error) Kind {
	switch {
	case jira.IsUnauthorized(err), jira.IsForbidden(err):
		return KindAuth
	case errors.Is(err, devhttp.ErrBadRequest), errors.Is(err, devhttp.ErrNotFound),
		errors.Is(err, jira.ErrProjectKeyInvalid), errors.Is(err, jira.ErrSummaryRequired):
		return KindValidation
	default:
		return KindNetwork
	}
}
