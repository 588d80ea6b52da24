// Package jira provides a client for creating issues through the Jira REST
// API.
//
// Both Jira Cloud (API v3) and Jira Server/Data Center (API v2) are
// supported. With APIVersionAuto the client asks serverInfo which
// deployment it is talking to before the first issue is created.
//
// # Authentication
//
// An email plus API token authenticates against Cloud with basic auth. A
// token without an email is sent as a bearer Personal Access Token, the
// Server/Data Center scheme.
//
// # Usage
//
//	client, err := jira.NewClient(jira.Config{
//		URL:   "https://your-domain.atlassian.net",
//		Email: "you@example.com",
//		Token: "your-api-token",
//	})
//	if err != nil {
//		return err
//	}
//
//	version := client.ResolveAPIVersion(ctx)
//	resp, err := client.CreateIssue(ctx, &jira.CreateIssueRequest{
//		Fields: jira.CreateIssueFields{
//			Project:     jira.ProjectRef{Key: "DEMO"},
//			IssueType:   jira.IssueTypeRef{Name: "Task"},
//			Summary:     "Add checkout flow",
//			Description: jira.RenderDescription(version, "Adds the flow."),
//		},
//	})
//
// # Rich Text
//
// Descriptions are written in Markdown. RenderDescription converts them to
// Atlassian Document Format for v3 and to wiki markup for v2.
//
// # Error Handling
//
// API failures are returned as *APIError, which unwraps to the sentinels in
// the ugh http package:
//
//	if errors.Is(err, http.ErrUnauthorized) {
//		// Bad credentials
//	}
package jira
