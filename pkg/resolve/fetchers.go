package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/depaudit/pkg/integrations"
	"github.com/matzehuels/depaudit/pkg/integrations/maven"
	"github.com/matzehuels/depaudit/pkg/integrations/npm"
	"github.com/matzehuels/depaudit/pkg/integrations/nuget"
	"github.com/matzehuels/depaudit/pkg/integrations/pypi"
)

// PyPI resolves Python packages. The documentation URL is the first of the
// Homepage project URL, home_page, the Documentation project URL, docs_url,
// package_url and the pypi.org project page.
func PyPI(c *pypi.Client) Fetcher {
	return FetcherFunc(func(ctx context.Context, name string, refresh bool) (Result, error) {
		info, err := c.FetchPackage(ctx, name, refresh)
		if err != nil {
			return Result{}, err
		}
		url := firstNonEmpty(
			projectURL(info.ProjectURLs, "Homepage", "Home", "homepage"),
			info.HomePage,
			projectURL(info.ProjectURLs, "Documentation", "Docs", "documentation"),
			info.DocsURL,
			info.PackageURL,
			fmt.Sprintf("https://pypi.org/project/%s/", integrations.NormalizePkgName(name)),
		)
		return Result{License: info.License, URL: url}, nil
	})
}

// NPM resolves JavaScript packages. The URL is the package homepage, else
// the normalized repository URL.
func NPM(c *npm.Client) Fetcher {
	return FetcherFunc(func(ctx context.Context, name string, refresh bool) (Result, error) {
		info, err := c.FetchPackage(ctx, name, refresh)
		if err != nil {
			return Result{}, err
		}
		return Result{License: info.License, URL: firstNonEmpty(info.HomePage, info.Repository)}, nil
	})
}

// Maven resolves "groupId:artifactId" coordinates. Artifacts that Maven
// Central search does not know still get their mvnrepository.com page.
func Maven(c *maven.Client) Fetcher {
	return FetcherFunc(func(ctx context.Context, name string, refresh bool) (Result, error) {
		group, artifact, err := maven.ParseCoordinate(name)
		if err != nil {
			return Result{}, err
		}
		info, err := c.FetchArtifact(ctx, name, refresh)
		if errors.Is(err, integrations.ErrNotFound) {
			return Result{URL: maven.BrowseURL(group, artifact)}, err
		}
		if err != nil {
			return Result{}, err
		}
		return Result{
			License: info.License(),
			URL:     firstNonEmpty(info.URL, maven.BrowseURL(group, artifact)),
		}, nil
	})
}

// NuGet resolves .NET packages from the catalog entry of the latest
// version. A registration document of unexpected shape resolves to no data
// rather than an error.
func NuGet(c *nuget.Client) Fetcher {
	return FetcherFunc(func(ctx context.Context, name string, refresh bool) (Result, error) {
		entry, err := c.FetchLatest(ctx, name, refresh)
		if errors.Is(err, nuget.ErrShape) {
			return Result{}, nil
		}
		if err != nil {
			return Result{}, err
		}
		return Result{License: entry.LicenseExpression, URL: entry.ProjectURL}, nil
	})
}

func projectURL(urls map[string]string, keys ...string) string {
	for _, k := range keys {
		if u := urls[k]; u != "" {
			return u
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
