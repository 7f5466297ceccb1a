package nuget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/integrations"
)

// ErrShape is returned when a registration document is missing a field the
// lookup depends on.
var ErrShape = fmt.Errorf("%w: unexpected registration shape", integrations.ErrMalformed)

// CatalogEntry is the subset of a NuGet catalog entry used for license data.
type CatalogEntry struct {
	ID                string `json:"id"`
	Version           string `json:"version"`
	LicenseExpression string `json:"licenseExpression"`
	LicenseURL        string `json:"licenseUrl"`
	ProjectURL        string `json:"projectUrl"`
}

// Client provides access to the NuGet registration API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a NuGet client.
func NewClient(backend cache.Cache, cacheTTL time.Duration, t integrations.Transport) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "nuget:", cacheTTL, nil).WithTransport(t),
		baseURL: "https://api.nuget.org/v3/registration5-semver1",
	}
}

// WithBaseURL points the client at a different registration base.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// FetchLatest returns the catalog entry of the latest listed version of id.
func (c *Client) FetchLatest(ctx context.Context, id string, refresh bool) (*CatalogEntry, error) {
	id = strings.ToLower(strings.TrimSpace(id))

	var entry CatalogEntry
	err := c.Cached(ctx, id, refresh, &entry, func() error {
		return c.fetch(ctx, id, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) fetch(ctx context.Context, id string, entry *CatalogEntry) error {
	var index registrationIndex
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/index.json", c.baseURL, id), &index); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: nuget package %s", err, id)
		}
		return err
	}
	if len(index.Items) == 0 {
		return fmt.Errorf("%w: %s has no pages", ErrShape, id)
	}

	page := index.Items[len(index.Items)-1]
	if len(page.Items) == 0 {
		if page.ID == "" {
			return fmt.Errorf("%w: %s last page has no items", ErrShape, id)
		}
		// large registrations page out their leaves
		if err := c.Get(ctx, page.ID, &page); err != nil {
			return err
		}
		if len(page.Items) == 0 {
			return fmt.Errorf("%w: %s page %s has no items", ErrShape, id, page.ID)
		}
	}

	leaf := page.Items[len(page.Items)-1]
	inline, ref, ok := decodeCatalogEntry(leaf.CatalogEntry)
	if !ok {
		return fmt.Errorf("%w: %s leaf has no catalogEntry", ErrShape, id)
	}
	if inline != nil && (inline.LicenseExpression != "" || inline.ProjectURL != "" || inline.LicenseURL != "") {
		*entry = inline.CatalogEntry
		return nil
	}
	if ref == "" {
		return fmt.Errorf("%w: %s catalogEntry has no @id", ErrShape, id)
	}

	var full CatalogEntry
	if err := c.Get(ctx, ref, &full); err != nil {
		return err
	}
	*entry = full
	return nil
}

// decodeCatalogEntry accepts both an inline object and a bare URL string.
func decodeCatalogEntry(raw json.RawMessage) (*inlineEntry, string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, "", false
	}
	var ref string
	if err := json.Unmarshal(raw, &ref); err == nil {
		return nil, ref, ref != ""
	}
	var inline inlineEntry
	if err := json.Unmarshal(raw, &inline); err != nil {
		return nil, "", false
	}
	return &inline, inline.Ref, true
}

type registrationIndex struct {
	Items []registrationPage `json:"items"`
}

type registrationPage struct {
	ID    string             `json:"@id"`
	Items []registrationLeaf `json:"items"`
}

type registrationLeaf struct {
	CatalogEntry json.RawMessage `json:"catalogEntry"`
}

type inlineEntry struct {
	Ref string `json:"@id"`
	CatalogEntry
}
