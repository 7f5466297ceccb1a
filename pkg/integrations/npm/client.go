package npm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/integrations"
)

// PackageInfo holds the license and link metadata of an npm package.
type PackageInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	License    string `json:"license"`
	HomePage   string `json:"homepage"`
	Repository string `json:"repository"`
}

// Client provides access to the npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npm registry client.
func NewClient(backend cache.Cache, cacheTTL time.Duration, t integrations.Transport) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "npm:", cacheTTL, nil).WithTransport(t),
		baseURL: "https://registry.npmjs.org",
	}
}

// WithBaseURL points the client at a different registry.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// FetchPackage retrieves license and link metadata for pkg.
// Top-level document fields are preferred; the dist-tags "latest" version
// entry fills whatever the top level lacks.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+escapeName(pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}

	latest := data.DistTags.Latest
	v := data.Versions[latest]

	*info = PackageInfo{
		Name:       data.Name,
		Version:    latest,
		License:    firstNonEmpty(extractLicense(data.License, data.Licenses), extractLicense(v.License, v.Licenses)),
		HomePage:   firstNonEmpty(data.HomePage, v.HomePage),
		Repository: integrations.NormalizeRepoURL(firstNonEmpty(extractField(data.Repository, "url"), extractField(v.Repository, "url"))),
	}
	return nil
}

// escapeName encodes the scope separator so "@scope/name" is one path segment.
func escapeName(pkg string) string {
	return strings.Replace(pkg, "/", "%2F", 1)
}

func extractLicense(license any, licenses []any) string {
	if s := extractField(license, "type"); s != "" {
		return s
	}
	var parts []string
	for _, l := range licenses {
		if s := extractField(l, "type"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " OR ")
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type registryResponse struct {
	Name       string                    `json:"name"`
	DistTags   distTags                  `json:"dist-tags"`
	Versions   map[string]versionDetails `json:"versions"`
	License    any                       `json:"license"`
	Licenses   []any                     `json:"licenses"`
	HomePage   string                    `json:"homepage"`
	Repository any                       `json:"repository"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	License    any    `json:"license"`
	Licenses   []any  `json:"licenses"`
	Repository any    `json:"repository"`
	HomePage   string `json:"homepage"`
}
