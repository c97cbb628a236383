package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// ErrPageLimit is returned by CollectAll when next links are still present
// after the page cap.
var ErrPageLimit = errors.New("page limit reached")

// PageFunc fetches one page of a list endpoint. Pages are numbered from 1.
type PageFunc[T any] func(ctx context.Context, page int) (*domain.Page[T], error)

// CollectAll follows next links from page 1 until they are absent and
// returns every item. It stops with ErrPageLimit, and the items gathered so
// far, after maxPages pages.
func CollectAll[T any](ctx context.Context, fetch PageFunc[T], maxPages int) ([]T, error) {
	var items []T
	for page := 1; page <= maxPages; page++ {
		p, err := fetch(ctx, page)
		if err != nil {
			return items, fmt.Errorf("fetching page %d: %w", page, err)
		}
		if items == nil {
			items = make([]T, 0, min(max(p.Count, 0), 1000))
		}
		items = append(items, p.Results...)
		if !p.HasNext() {
			return items, nil
		}
	}
	return items, fmt.Errorf("stopped after %d pages: %w", maxPages, ErrPageLimit)
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func getPage[T any](ctx context.Context, c *Client, path string, q url.Values) (*domain.Page[T], error) {
	var p domain.Page[T]
	if err := c.gw.Get(ctx, path, q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
