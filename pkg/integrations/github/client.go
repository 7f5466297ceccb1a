package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/integrations"
)

// License is the license GitHub detected for a repository.
type License struct {
	SPDXID string `json:"spdx_id"`
	Name   string `json:"name"`
}

// Identifier returns the SPDX id, or the license name when GitHub could not
// map it to SPDX ("NOASSERTION"). Empty when neither is known.
func (l *License) Identifier() string {
	if l.SPDXID != "" && l.SPDXID != "NOASSERTION" {
		return l.SPDXID
	}
	if l.Name != "" && !strings.EqualFold(l.Name, "other") {
		return l.Name
	}
	return ""
}

// Client provides access to the GitHub API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(token string, backend cache.Cache, cacheTTL time.Duration, t integrations.Transport) *Client {
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(backend, "github:", cacheTTL, headers).WithTransport(t),
		baseURL: "https://api.github.com",
	}
}

// WithBaseURL points the client at a different API host (GitHub Enterprise, tests).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// FetchLicense returns the license GitHub detected for owner/repo.
// A repository without a detectable license yields [integrations.ErrNotFound].
func (c *Client) FetchLicense(ctx context.Context, owner, repo string, refresh bool) (*License, error) {
	key := strings.ToLower(owner + "/" + repo)

	var lic License
	err := c.Cached(ctx, key, refresh, &lic, func() error {
		return c.fetchLicense(ctx, owner, repo, &lic)
	})
	if err != nil {
		return nil, err
	}
	return &lic, nil
}

func (c *Client) fetchLicense(ctx context.Context, owner, repo string, lic *License) error {
	var data licenseResponse
	url := fmt.Sprintf("%s/repos/%s/%s/license", c.baseURL, owner, repo)
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github license %s/%s", err, owner, repo)
		}
		return err
	}
	if data.License == nil {
		return fmt.Errorf("%w: github license %s/%s", integrations.ErrNotFound, owner, repo)
	}
	*lic = *data.License
	return nil
}

type licenseResponse struct {
	License *License `json:"license"`
}
