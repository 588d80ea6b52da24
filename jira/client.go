package jira

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	devhttp "github.com/randalmurphal/ugh/http"
)

// Client provides access to the Jira REST API.
type Client struct {
	cfg  Config
	http *devhttp.Client

	mu             sync.Mutex
	apiVersion     APIVersion
	deploymentType DeploymentType
}

// NewClient creates a new Jira client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	version, _ := ParseAPIVersion(string(cfg.APIVersion))

	c := &Client{
		cfg:        cfg,
		apiVersion: version,
	}
	c.http = devhttp.NewClient(devhttp.ClientConfig{
		Client:        cfg.HTTPClient,
		BaseURL:       cfg.URL,
		ServiceName:   "jira",
		BeforeRequest: c.setAuth,
	})
	return c, nil
}

// DetectDeployment detects the Jira deployment type by calling serverInfo.
func (c *Client) DetectDeployment(ctx context.Context) (DeploymentType, error) {
	info, err := c.GetServerInfo(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.deploymentType = DeploymentType(info.DeploymentType)

	if c.apiVersion == APIVersionAuto {
		if c.deploymentType == DeploymentCloud {
			c.apiVersion = APIVersionV3
		} else {
			c.apiVersion = APIVersionV2
		}
	}

	return c.deploymentType, nil
}

// GetServerInfo fetches server information.
func (c *Client) GetServerInfo(ctx context.Context) (*ServerInfo, error) {
	var lastErr error
	// Try v3 first (Cloud), then v2
	for _, version := range []string{"3", "2"} {
		var info ServerInfo
		err := c.http.Get(ctx, "/rest/api/"+version+"/serverInfo", &info)
		if err == nil {
			return &info, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = fromHTTPError(err)
	}

	return nil, fmt.Errorf("get server info from %s: %w", c.http.BaseURL(), lastErr)
}

// ResolveAPIVersion returns the API version requests will use. With
// "auto" the deployment is detected once; if detection fails v3 is
// assumed.
func (c *Client) ResolveAPIVersion(ctx context.Context) APIVersion {
	c.mu.Lock()
	version := c.apiVersion
	c.mu.Unlock()
	if version != APIVersionAuto {
		return version
	}

	if _, err := c.DetectDeployment(ctx); err != nil {
		c.mu.Lock()
		c.apiVersion = APIVersionV3
		c.mu.Unlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiVersion
}

// CreateIssue creates a new issue. The request is sent exactly once.
func (c *Client) CreateIssue(ctx context.Context, req *CreateIssueRequest) (*CreateIssueResponse, error) {
	if !ValidateProjectKey(req.Fields.Project.Key) && req.Fields.Project.ID == "" {
		return nil, fmt.Errorf("%w: %q", ErrProjectKeyInvalid, req.Fields.Project.Key)
	}
	if strings.TrimSpace(req.Fields.Summary) == "" {
		return nil, ErrSummaryRequired
	}

	path := c.apiPath(c.ResolveAPIVersion(ctx), "/issue")

	var result CreateIssueResponse
	if err := c.http.Post(ctx, path, req, &result); err != nil {
		return nil, fromHTTPError(err)
	}
	return &result, nil
}

// BrowseURL returns the web URL of an issue.
func (c *Client) BrowseURL(key string) string {
	return c.http.BaseURL() + "/browse/" + url.PathEscape(key)
}

// apiPath returns the full API path for the given endpoint.
func (c *Client) apiPath(version APIVersion, endpoint string) string {
	if version == APIVersionAuto {
		version = APIVersionV3
	}
	return fmt.Sprintf("/rest/api/%s%s", strings.TrimPrefix(string(version), "v"), endpoint)
}

// setAuth sets the authentication header based on config.
func (c *Client) setAuth(req *http.Request) {
	switch c.cfg.AuthType() {
	case AuthAPIToken:
		// Cloud: email:api_token base64 encoded
		credentials := c.cfg.Email + ":" + c.cfg.Token
		encoded := base64.StdEncoding.EncodeToString([]byte(credentials))
		req.Header.Set("Authorization", "Basic "+encoded)

	case AuthPAT:
		// Data Center: Bearer token
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}

// IsCloud returns true if connected to Jira Cloud.
func (c *Client) IsCloud() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deploymentType == DeploymentCloud
}
