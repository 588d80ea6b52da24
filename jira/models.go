package jira

import "regexp"

// DeploymentType represents the type of Jira deployment.
type DeploymentType string

// Deployment types for Jira instances.
const (
	DeploymentCloud      DeploymentType = "Cloud"
	DeploymentServer     DeploymentType = "Server"
	DeploymentDataCenter DeploymentType = "DataCenter"
)

// APIVersion represents the Jira REST API version.
type APIVersion string

// API versions supported by the Jira REST API.
const (
	APIVersionAuto APIVersion = "auto"
	APIVersionV2   APIVersion = "v2"
	APIVersionV3   APIVersion = "v3"
)

// ServerInfo represents the response from /rest/api/X/serverInfo.
type ServerInfo struct {
	BaseURL        string `json:"baseUrl"`
	Version        string `json:"version"`
	DeploymentType string `json:"deploymentType"` // "Cloud", "Server", "DataCenter"
	ServerTitle    string `json:"serverTitle"`
}

// CreateIssueRequest represents a request to create an issue.
type CreateIssueRequest struct {
	Fields CreateIssueFields `json:"fields"`
}

// CreateIssueFields represents the fields for creating an issue.
type CreateIssueFields struct {
	Project     ProjectRef   `json:"project"`
	IssueType   IssueTypeRef `json:"issuetype"`
	Summary     string       `json:"summary"`
	Description any          `json:"description,omitempty"` // ADF (v3) or wiki string (v2)
	Labels      []string     `json:"labels,omitempty"`
}

// ProjectRef references a project by key or ID.
type ProjectRef struct {
	Key string `json:"key,omitempty"`
	ID  string `json:"id,omitempty"`
}

// IssueTypeRef references an issue type by name or ID.
type IssueTypeRef struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// CreateIssueResponse represents the response from creating an issue.
type CreateIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

var (
	// issueKeyRegex validates Jira issue keys (e.g., PROJ-123).
	issueKeyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-\d+$`)

	projectKeyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

// ValidateIssueKey validates a Jira issue key format.
func ValidateIssueKey(key string) bool {
	return issueKeyRegex.MatchString(key)
}

// ValidateProjectKey validates a Jira project key format.
func ValidateProjectKey(key string) bool {
	return projectKeyRegex.MatchString(key)
}
