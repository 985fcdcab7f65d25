package woo

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Taxonomy endpoints under the product namespace.
const (
	EndpointCategories = "products/categories"
	EndpointTags       = "products/tags"
)

// Term is a remote taxonomy entity (category or tag).
type Term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type termCreate struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// EnsureTerms resolves each name to a remote term id, creating terms that
// do not exist yet. Names are processed sequentially so identical names in
// one call never race each other into duplicate creates; the second
// occurrence is skipped via the seen set. A term that cannot be resolved is
// logged and dropped — the product proceeds without it.
func (c *Client) EnsureTerms(ctx context.Context, endpoint string, names []string) []int {
	ids := make([]int, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		id, err := c.ensureTerm(ctx, endpoint, name)
		if err != nil {
			c.log.Error().Err(err).Str("endpoint", endpoint).Str("term", name).
				Msg("term unresolved, dropping")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ensureTerm is a find-then-maybe-create round trip for one name.
func (c *Client) ensureTerm(ctx context.Context, endpoint, name string) (int, error) {
	slug := Slugify(name)

	if id, err := c.findTerm(ctx, endpoint, name, slug); err != nil {
		c.log.Warn().Err(err).Str("term", name).Msg("term search failed, trying create")
	} else if id != 0 {
		return id, nil
	}

	var created Term
	err := c.doJSON(ctx, "POST", endpoint, nil, termCreate{Name: name, Slug: slug}, &created)
	if err == nil && created.ID != 0 {
		return created.ID, nil
	}

	// Creation can fail because the term already exists (term_exists). The
	// conflict body usually carries the existing id; if not, re-query by the
	// exact slug.
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Body.Data.ResourceID != 0 {
			return apiErr.Body.Data.ResourceID, nil
		}
		if id, slugErr := c.findBySlug(ctx, endpoint, slug); slugErr == nil && id != 0 {
			return id, nil
		}
	}
	return 0, err
}

// findTerm searches the listing endpoint and matches on exact slug or
// case-insensitive name.
func (c *Client) findTerm(ctx context.Context, endpoint, name, slug string) (int, error) {
	q := url.Values{}
	q.Set("per_page", "50")
	q.Set("search", name)

	var terms []Term
	if err := c.doJSON(ctx, "GET", endpoint, q, nil, &terms); err != nil {
		return 0, err
	}
	for _, term := range terms {
		if term.Slug == slug || strings.EqualFold(term.Name, name) {
			return term.ID, nil
		}
	}
	return 0, nil
}

func (c *Client) findBySlug(ctx context.Context, endpoint, slug string) (int, error) {
	q := url.Values{}
	q.Set("per_page", "50")
	q.Set("slug", slug)

	var terms []Term
	if err := c.doJSON(ctx, "GET", endpoint, q, nil, &terms); err != nil {
		return 0, err
	}
	if len(terms) > 0 {
		return terms[0].ID, nil
	}
	return 0, nil
}
