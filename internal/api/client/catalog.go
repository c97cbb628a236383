package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// Categories returns the top-level categories with their children.
func (c *Client) Categories(ctx context.Context) ([]domain.CategoryNode, error) {
	var cats []domain.CategoryNode
	if err := c.gw.Get(ctx, "/items/categories/", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) Category(ctx context.Context, id int64) (*domain.CategoryNode, error) {
	if err := requireID("category id", id); err != nil {
		return nil, err
	}
	var cat domain.CategoryNode
	if err := c.gw.Get(ctx, fmt.Sprintf("/items/categories/%d/", id), nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Search runs a site-wide search across listings, catalogue items,
// collections and users.
func (c *Client) Search(ctx context.Context, query string, page int) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("search query is required")
	}
	q := pageQuery(page)
	q.Set("q", query)

	var res domain.SearchResult
	if err := c.gw.Get(ctx, "/items/search/", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Autocomplete returns type-ahead suggestions. A blank prefix yields no
// suggestions without a network call.
func (c *Client) Autocomplete(ctx context.Context, prefix string) ([]domain.AutocompleteSuggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}
	var res domain.AutocompleteResult
	if err := c.gw.Get(ctx, "/items/autocomplete/", url.Values{"q": {prefix}}, &res); err != nil {
		return nil, err
	}
	return res.Suggestions, nil
}
