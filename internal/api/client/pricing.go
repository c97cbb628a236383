package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// PriceGuideItems returns one page of the price guide catalogue.
func (c *Client) PriceGuideItems(ctx context.Context, f domain.PriceGuideFilter) (*domain.Page[domain.PriceGuideItem], error) {
	q := pageQuery(f.Page)
	if f.Category > 0 {
		q.Set("category", strconv.FormatInt(f.Category, 10))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	return getPage[domain.PriceGuideItem](ctx, c, "/pricing/items/", q)
}

func (c *Client) PriceGuideItem(ctx context.Context, id int64) (*domain.PriceGuideItem, error) {
	if err := requireID("item id", id); err != nil {
		return nil, err
	}
	var item domain.PriceGuideItem
	if err := c.gw.Get(ctx, fmt.Sprintf("/pricing/items/%d/", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GradePrices returns the per-grade price breakdown of an item.
func (c *Client) GradePrices(ctx context.Context, itemID int64) ([]domain.GradePrice, error) {
	if err := requireID("item id", itemID); err != nil {
		return nil, err
	}
	var grades []domain.GradePrice
	if err := c.gw.Get(ctx, fmt.Sprintf("/pricing/items/%d/grades/", itemID), nil, &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

// Sales returns one page of recorded sales of an item, newest first.
func (c *Client) Sales(ctx context.Context, itemID int64, page int) (*domain.Page[domain.SaleRecord], error) {
	if err := requireID("item id", itemID); err != nil {
		return nil, err
	}
	return getPage[domain.SaleRecord](ctx, c, fmt.Sprintf("/pricing/items/%d/sales/", itemID), pageQuery(page))
}

// PriceHistory returns chart points for an item over period. An empty
// period means one year.
func (c *Client) PriceHistory(ctx context.Context, itemID int64, period string) ([]domain.PricePoint, error) {
	if err := requireID("item id", itemID); err != nil {
		return nil, err
	}
	switch period {
	case "":
		period = domain.Period1Year
	case domain.Period30Days, domain.Period90Days, domain.Period1Year, domain.PeriodAll:
	default:
		return nil, invalid(fmt.Sprintf("unknown history period %q", period))
	}

	var points []domain.PricePoint
	err := c.gw.Get(ctx, fmt.Sprintf("/pricing/items/%d/history/", itemID), url.Values{"period": {period}}, &points)
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) Trending(ctx context.Context) ([]domain.TrendingItem, error) {
	var items []domain.TrendingItem
	if err := c.gw.Get(ctx, "/pricing/trending/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
