package pypi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/integrations"
)

// PackageInfo holds the license and link metadata of a Python package.
//
// Zero values: all string fields may be empty. ProjectURLs may be nil.
type PackageInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	License     string            `json:"license"`
	HomePage    string            `json:"home_page"`
	DocsURL     string            `json:"docs_url"`
	PackageURL  string            `json:"package_url"`
	ProjectURLs map[string]string `json:"project_urls"`
}

// Client provides access to the PyPI package registry API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend, cache TTL
// and transport settings.
func NewClient(backend cache.Cache, cacheTTL time.Duration, t integrations.Transport) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil).WithTransport(t),
		baseURL: "https://pypi.org/pypi",
	}
}

// WithBaseURL points the client at a different index (mirrors, tests).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// FetchPackage retrieves metadata for a Python package from PyPI.
//
// The pkg parameter is normalized automatically (case-insensitive, underscores→hyphens).
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the package doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - [integrations.ErrMalformed] if the response has no info object
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)

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
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}
	if data.Info == nil {
		return fmt.Errorf("%w: pypi package %s has no info", integrations.ErrMalformed, pkg)
	}

	// project_urls is null for many older packages and may carry non-string values
	urls := make(map[string]string, len(data.Info.ProjectURLs))
	for k, v := range data.Info.ProjectURLs {
		if s, ok := v.(string); ok {
			urls[k] = s
		}
	}

	*info = PackageInfo{
		Name:        data.Info.Name,
		Version:     data.Info.Version,
		License:     extractLicenseType(data.Info.LicenseExpression, data.Info.License, data.Info.Classifiers),
		HomePage:    data.Info.HomePage,
		DocsURL:     data.Info.DocsURL,
		PackageURL:  data.Info.PackageURL,
		ProjectURLs: urls,
	}
	return nil
}

type apiResponse struct {
	Info *apiInfo `json:"info"`
}

type apiInfo struct {
	Name              string         `json:"name"`
	Version           string         `json:"version"`
	License           string         `json:"license"`
	LicenseExpression string         `json:"license_expression"`
	Classifiers       []string       `json:"classifiers"`
	ProjectURLs       map[string]any `json:"project_urls"`
	HomePage          string         `json:"home_page"`
	DocsURL           string         `json:"docs_url"`
	PackageURL        string         `json:"package_url"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// Full license texts pasted into the license field are ignored in favour of
// classifiers (e.g., "License :: OSI Approved :: MIT License" -> "MIT License").
func extractLicenseType(expression, license string, classifiers []string) string {
	if e := strings.TrimSpace(expression); e != "" {
		return e
	}

	license = strings.TrimSpace(license)
	if license != "" && !strings.EqualFold(license, "unknown") && len(license) < 100 && !strings.Contains(license, "\n") {
		return license
	}

	for _, c := range classifiers {
		if strings.HasPrefix(c, "License ::") {
			parts := strings.Split(c, "::")
			if last := strings.TrimSpace(parts[len(parts)-1]); last != "" && len(parts) >= 3 {
				return last
			}
		}
	}

	if license != "" && !strings.EqualFold(license, "unknown") {
		firstLine := strings.TrimSpace(strings.SplitN(license, "\n", 2)[0])
		if len(firstLine) < 50 {
			return firstLine
		}
	}
	return ""
}
