package woo

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alvarogf/txt2woo/internal/product"
	"golang.org/x/sync/errgroup"
)

// termRef is either {id} for a resolved term or {name} as a fallback that
// lets the store create/attach the term itself.
type termRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type imageRef struct {
	Src string `json:"src"`
}

type attributePayload struct {
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
}

type productPayload struct {
	Name             string              `json:"name"`
	Type             string              `json:"type"`
	Status           product.Status      `json:"status,omitempty"`
	SKU              string              `json:"sku,omitempty"`
	RegularPrice     string              `json:"regular_price,omitempty"`
	SalePrice        string              `json:"sale_price,omitempty"`
	Description      string              `json:"description,omitempty"`
	ShortDescription string              `json:"short_description,omitempty"`
	Categories       []termRef           `json:"categories,omitempty"`
	Tags             []termRef           `json:"tags,omitempty"`
	Images           []imageRef          `json:"images,omitempty"`
	ManageStock      bool                `json:"manage_stock"`
	StockQuantity    *int                `json:"stock_quantity,omitempty"`
	Weight           string              `json:"weight,omitempty"`
	Dimensions       *product.Dimensions `json:"dimensions,omitempty"`
	Attributes       []attributePayload  `json:"attributes,omitempty"`
}

// Created is the store's view of a product after creation.
type Created struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Permalink string `json:"permalink"`
	Status    string `json:"status"`
}

// CreateProduct resolves taxonomy terms and image reachability for rec,
// then submits it once to the products endpoint. Category and tag
// resolution run concurrently with each other; image probes all run in
// parallel. Term failures are soft (the record proceeds without the term);
// only the final create call is fatal, and it is never retried here.
func (c *Client) CreateProduct(ctx context.Context, rec *product.Record) (*Created, error) {
	categories := product.DedupeList(rec.Categories)
	tags := product.DedupeList(rec.Tags)

	var categoryIDs, tagIDs []int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categoryIDs = c.EnsureTerms(gctx, EndpointCategories, categories)
		return nil
	})
	g.Go(func() error {
		tagIDs = c.EnsureTerms(gctx, EndpointTags, tags)
		return nil
	})
	_ = g.Wait()

	images := c.filterReachableImages(ctx, product.DedupeList(rec.Images))

	payload := buildPayload(rec, categories, categoryIDs, tags, tagIDs, images)

	var created Created
	if err := c.doJSON(ctx, "POST", "products", nil, payload, &created); err != nil {
		c.log.Error().Err(err).Str("product", rec.Name).Msg("product create rejected")
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Body.Message != "" {
			return nil, fmt.Errorf("woo: %s", apiErr.Body.Message)
		}
		return nil, errors.New("woo: failed to create product")
	}
	c.log.Info().Int("id", created.ID).Str("product", created.Name).Msg("product created")
	return &created, nil
}

func buildPayload(rec *product.Record, categories []string, categoryIDs []int, tags []string, tagIDs []int, images []string) productPayload {
	typ := rec.Type
	if typ == "" {
		typ = "simple"
	}

	manageStock := rec.StockQuantity != nil
	var stock *int
	if manageStock {
		qty := *rec.StockQuantity
		stock = &qty
	}

	payload := productPayload{
		Name:             rec.Name,
		Type:             typ,
		Status:           rec.Status,
		SKU:              rec.SKU,
		RegularPrice:     rec.RegularPrice,
		SalePrice:        rec.SalePrice,
		Description:      rec.Description,
		ShortDescription: rec.ShortDescription,
		Categories:       termRefs(categories, categoryIDs),
		Tags:             termRefs(tags, tagIDs),
		ManageStock:      manageStock,
		StockQuantity:    stock,
		Weight:           rec.Weight,
	}

	for _, img := range images {
		payload.Images = append(payload.Images, imageRef{Src: img})
	}

	// Dimensions go all-or-nothing: once any side is present the whole
	// triple is sent, absent sides as empty strings.
	if rec.Dimensions != nil && !rec.Dimensions.Empty() {
		dims := *rec.Dimensions
		payload.Dimensions = &dims
	}

	for _, attr := range rec.Attributes {
		payload.Attributes = append(payload.Attributes, attributePayload{
			Name:      attr.Name,
			Options:   []string{attr.Value},
			Visible:   attr.Visible,
			Variation: attr.Variation,
		})
	}
	return payload
}

// termRefs prefers resolved ids and falls back to raw name objects when
// nothing was resolved for the whole list.
func termRefs(names []string, ids []int) []termRef {
	if len(ids) > 0 {
		refs := make([]termRef, len(ids))
		for i, id := range ids {
			refs[i] = termRef{ID: id}
		}
		return refs
	}
	refs := make([]termRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, termRef{Name: name})
	}
	return refs
}

// filterReachableImages probes every URL in parallel with a HEAD request
// and keeps, in original order, only those that answered with a success
// status. Unreachable images are dropped silently; the record is never
// blocked by a missing picture.
func (c *Client) filterReachableImages(ctx context.Context, urls []string) []string {
	if len(urls) == 0 {
		return nil
	}
	reachable := make([]bool, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			reachable[i] = c.probeImage(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(urls))
	for i, u := range urls {
		if reachable[i] {
			out = append(out, u)
		} else {
			c.log.Warn().Str("url", u).Msg("image unreachable, dropping")
		}
	}
	return out
}

func (c *Client) probeImage(ctx context.Context, u string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
