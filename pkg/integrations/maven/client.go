package maven

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/integrations"
)

// ArtifactInfo holds metadata for a Java artifact from Maven Central.
//
// Zero values: Licenses is nil when the POM has no <licenses> section or
// could not be fetched.
type ArtifactInfo struct {
	GroupID    string   `json:"group_id"`
	ArtifactID string   `json:"artifact_id"`
	Version    string   `json:"version"`
	Licenses   []string `json:"licenses,omitempty"`
	URL        string   `json:"url,omitempty"`     // project <url> from the POM
	POMURL     string   `json:"pom_url,omitempty"` // POM location on the repository
}

// Coordinate returns the Maven coordinate string "groupId:artifactId".
func (a *ArtifactInfo) Coordinate() string {
	return a.GroupID + ":" + a.ArtifactID
}

// License joins the declared licenses with " OR ".
func (a *ArtifactInfo) License() string {
	return strings.Join(a.Licenses, " OR ")
}

// BrowseURL returns the mvnrepository.com page for a coordinate.
func BrowseURL(groupID, artifactID string) string {
	return fmt.Sprintf("https://mvnrepository.com/artifact/%s/%s", groupID, artifactID)
}

// Client provides access to the Maven Central repository API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	searchURL string
	repoURL   string
}

// NewClient creates a Maven Central client.
func NewClient(backend cache.Cache, cacheTTL time.Duration, t integrations.Transport) *Client {
	return &Client{
		Client:    integrations.NewClient(backend, "maven:", cacheTTL, nil).WithTransport(t),
		searchURL: "https://search.maven.org/solrsearch/select",
		repoURL:   "https://repo1.maven.org/maven2",
	}
}

// WithBaseURLs points the client at a different search endpoint and repository.
func (c *Client) WithBaseURLs(searchURL, repoURL string) *Client {
	c.searchURL = searchURL
	c.repoURL = strings.TrimSuffix(repoURL, "/")
	return c
}

// FetchArtifact retrieves metadata for a Java artifact from Maven Central.
//
// The coordinate parameter must be in the format "groupId:artifactId".
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - ArtifactInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the search has no hit
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - Error if coordinate format is invalid
func (c *Client) FetchArtifact(ctx context.Context, coordinate string, refresh bool) (*ArtifactInfo, error) {
	groupID, artifactID, err := ParseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}

	var info ArtifactInfo
	err = c.Cached(ctx, coordinate, refresh, &info, func() error {
		return c.fetch(ctx, groupID, artifactID, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, groupID, artifactID string, info *ArtifactInfo) error {
	query := fmt.Sprintf("g:%q AND a:%q", groupID, artifactID)
	url := fmt.Sprintf("%s?q=%s&rows=1&wt=json", c.searchURL, integrations.URLEncode(query))

	var searchResp searchResponse
	if err := c.Get(ctx, url, &searchResp); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: maven artifact %s:%s", err, groupID, artifactID)
		}
		return err
	}

	if searchResp.Response.NumFound == 0 || len(searchResp.Response.Docs) == 0 {
		return fmt.Errorf("%w: maven artifact %s:%s", integrations.ErrNotFound, groupID, artifactID)
	}

	doc := searchResp.Response.Docs[0]
	version := doc.LatestVersion
	if version == "" {
		version = doc.Version
	}

	*info = ArtifactInfo{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Version:    version,
	}
	if version == "" {
		return nil
	}

	info.POMURL = c.pomURL(groupID, artifactID, version)
	if pom, err := c.fetchPOM(ctx, info.POMURL); err == nil {
		info.URL = strings.TrimSpace(pom.URL)
		for _, l := range pom.Licenses {
			if name := strings.TrimSpace(l.Name); name != "" {
				info.Licenses = append(info.Licenses, name)
			}
		}
	}
	return nil
}

func (c *Client) pomURL(groupID, artifactID, version string) string {
	groupPath := strings.ReplaceAll(groupID, ".", "/")
	return fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom", c.repoURL, groupPath, artifactID, version, artifactID, version)
}

func (c *Client) fetchPOM(ctx context.Context, url string) (*pomProject, error) {
	data, err := c.GetBytes(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, fmt.Errorf("%w: pom %s: %v", integrations.ErrMalformed, url, err)
	}
	return &pom, nil
}

// ParseCoordinate splits "groupId:artifactId[:version]" into group and artifact.
func ParseCoordinate(coord string) (groupID, artifactID string, err error) {
	parts := strings.Split(coord, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid maven coordinate %q (expected groupId:artifactId)", coord)
	}
	return parts[0], parts[1], nil
}

type searchResponse struct {
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	GroupID       string `json:"g"`
	ArtifactID    string `json:"a"`
	Version       string `json:"v"`
	LatestVersion string `json:"latestVersion"`
}

type pomProject struct {
	URL      string       `xml:"url"`
	Licenses []pomLicense `xml:"licenses>license"`
}

type pomLicense struct {
	Name string `xml:"name"`
	URL  string `xml:"url"`
}
