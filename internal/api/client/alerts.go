package client

import (
	"context"
	"fmt"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// Notifications returns one page of notifications, optionally only unread
// ones.
func (c *Client) Notifications(ctx context.Context, page int, unreadOnly bool) (*domain.Page[domain.Notification], error) {
	q := pageQuery(page)
	if unreadOnly {
		q.Set("unread", "true")
	}
	return getPage[domain.Notification](ctx, c, "/alerts/notifications/", q)
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	if err := requireID("notification id", id); err != nil {
		return err
	}
	return c.gw.Post(ctx, fmt.Sprintf("/alerts/notifications/%d/read/", id), nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.gw.Post(ctx, "/alerts/notifications/read-all/", nil, nil)
}

func (c *Client) Wishlists(ctx context.Context, page int) (*domain.Page[domain.Wishlist], error) {
	return getPage[domain.Wishlist](ctx, c, "/alerts/wishlists/", pageQuery(page))
}

// Wishlist returns a wishlist with its items.
func (c *Client) Wishlist(ctx context.Context, id int64) (*domain.Wishlist, error) {
	if err := requireID("wishlist id", id); err != nil {
		return nil, err
	}
	var w domain.Wishlist
	if err := c.gw.Get(ctx, fmt.Sprintf("/alerts/wishlists/%d/", id), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) CreateWishlist(ctx context.Context, req domain.WishlistInput) (*domain.Wishlist, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	var w domain.Wishlist
	if err := c.gw.Post(ctx, "/alerts/wishlists/", req, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) AddWishlistItem(ctx context.Context, wishlistID int64, req domain.WishlistItemInput) (*domain.WishlistItem, error) {
	if err := requireID("wishlist id", wishlistID); err != nil {
		return nil, err
	}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var item domain.WishlistItem
	if err := c.gw.Post(ctx, fmt.Sprintf("/alerts/wishlists/%d/items/", wishlistID), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) RemoveWishlistItem(ctx context.Context, wishlistID, itemID int64) error {
	if err := requireID("wishlist id", wishlistID); err != nil {
		return err
	}
	if err := requireID("item id", itemID); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/alerts/wishlists/%d/items/%d/", wishlistID, itemID), nil)
}

func (c *Client) SavedSearches(ctx context.Context, page int) (*domain.Page[domain.SavedSearch], error) {
	return getPage[domain.SavedSearch](ctx, c, "/alerts/saved-searches/", pageQuery(page))
}

// CreateSavedSearch stores a search. When both bounds are given the minimum
// must not exceed the maximum.
func (c *Client) CreateSavedSearch(ctx context.Context, req domain.SavedSearchInput) (*domain.SavedSearch, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	if req.MinPrice != "" && req.MaxPrice != "" {
		lo, _ := domain.ParseMoney(req.MinPrice)
		hi, _ := domain.ParseMoney(req.MaxPrice)
		if lo.GreaterThan(hi) {
			return nil, invalid("min_price must not exceed max_price")
		}
	}
	var s domain.SavedSearch
	if err := c.gw.Post(ctx, "/alerts/saved-searches/", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteSavedSearch(ctx context.Context, id int64) error {
	if err := requireID("saved search id", id); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/alerts/saved-searches/%d/", id), nil)
}

func (c *Client) PriceAlerts(ctx context.Context, page int) (*domain.Page[domain.PriceAlert], error) {
	return getPage[domain.PriceAlert](ctx, c, "/alerts/price-alerts/", pageQuery(page))
}

// CreatePriceAlert watches a catalogue item for a price below or above the
// target.
func (c *Client) CreatePriceAlert(ctx context.Context, req domain.PriceAlertInput) (*domain.PriceAlert, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	var a domain.PriceAlert
	if err := c.gw.Post(ctx, "/alerts/price-alerts/", req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeletePriceAlert(ctx context.Context, id int64) error {
	if err := requireID("price alert id", id); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/alerts/price-alerts/%d/", id), nil)
}
