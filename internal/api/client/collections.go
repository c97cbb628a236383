package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/nadermx/heroesandmore-client/internal/gateway"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// Export formats accepted by ExportCollection.
const (
	ExportJSON = "json"
	ExportCSV  = "csv"
)

func (c *Client) MyCollections(ctx context.Context, page int) (*domain.Page[domain.Collection], error) {
	return getPage[domain.Collection](ctx, c, "/collections/mine/", pageQuery(page))
}

// PublicCollections returns one page of other users' public collections,
// optionally filtered by a search term.
func (c *Client) PublicCollections(ctx context.Context, page int, search string) (*domain.Page[domain.Collection], error) {
	q := pageQuery(page)
	if search = strings.TrimSpace(search); search != "" {
		q.Set("search", search)
	}
	return getPage[domain.Collection](ctx, c, "/collections/public/", q)
}

// Collection returns a collection with its items.
func (c *Client) Collection(ctx context.Context, id int64) (*domain.CollectionDetail, error) {
	if err := requireID("collection id", id); err != nil {
		return nil, err
	}
	var d domain.CollectionDetail
	if err := c.gw.Get(ctx, collectionPath(id, ""), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateCollection(ctx context.Context, req domain.CollectionInput) (*domain.Collection, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	var col domain.Collection
	if err := c.gw.Post(ctx, "/collections/mine/", req, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// UpdateCollection changes only the fields set in req.
func (c *Client) UpdateCollection(ctx context.Context, id int64, req domain.CollectionUpdate) (*domain.Collection, error) {
	if err := requireID("collection id", id); err != nil {
		return nil, err
	}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var col domain.Collection
	if err := c.gw.Patch(ctx, collectionPath(id, ""), req, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *Client) DeleteCollection(ctx context.Context, id int64) error {
	if err := requireID("collection id", id); err != nil {
		return err
	}
	return c.gw.Delete(ctx, collectionPath(id, ""), nil)
}

func (c *Client) CollectionItems(ctx context.Context, id int64, page int) (*domain.Page[domain.CollectionItem], error) {
	if err := requireID("collection id", id); err != nil {
		return nil, err
	}
	return getPage[domain.CollectionItem](ctx, c, collectionPath(id, "items/"), pageQuery(page))
}

func (c *Client) AddCollectionItem(ctx context.Context, id int64, req domain.CollectionItemInput) (*domain.CollectionItem, error) {
	if err := requireID("collection id", id); err != nil {
		return nil, err
	}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var item domain.CollectionItem
	if err := c.gw.Post(ctx, collectionPath(id, "items/"), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) RemoveCollectionItem(ctx context.Context, id, itemID int64) error {
	if err := requireID("collection id", id); err != nil {
		return err
	}
	if err := requireID("item id", itemID); err != nil {
		return err
	}
	return c.gw.Delete(ctx, collectionPath(id, fmt.Sprintf("items/%d/", itemID)), nil)
}

// CollectionValue returns the current valuation of a collection.
func (c *Client) CollectionValue(ctx context.Context, id int64) (*domain.ValueSummary, error) {
	if err := requireID("collection id", id); err != nil {
		return nil, err
	}
	var v domain.ValueSummary
	if err := c.gw.Get(ctx, collectionPath(id, "value/"), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) CollectionValueHistory(ctx context.Context, id int64) ([]domain.ValueSnapshot, error) {
	if err := requireID("collection id", id); err != nil {
		return nil, err
	}
	var history []domain.ValueSnapshot
	if err := c.gw.Get(ctx, collectionPath(id, "value_history/"), nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func collectionPath(id int64, sub string) string {
	return fmt.Sprintf("/collections/%d/%s", id, sub)
}

// ExportCollection downloads a collection as JSON or CSV bytes.
func (c *Client) ExportCollection(ctx context.Context, id int64, format string) ([]byte, error) {
	if err := requireID("collection id", id); err != nil {
		return nil, err
	}
	if format == "" {
		format = ExportJSON
	}
	if format != ExportJSON && format != ExportCSV {
		return nil, invalid(fmt.Sprintf("unknown export format %q", format))
	}
	return c.gw.Raw(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   collectionPath(id, "export/"),
		Query:  url.Values{"export_format": {format}},
	})
}

// ImportCollection uploads a JSON or CSV export as a new collection. name
// overrides the collection name when non-empty.
func (c *Client) ImportCollection(ctx context.Context, filename string, data []byte, name string) (*domain.ImportResult, error) {
	contentType := "text/csv"
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		contentType = "application/json"
	}
	var fields map[string]string
	if name != "" {
		fields = map[string]string{"name": name}
	}

	var res domain.ImportResult
	err := c.gw.Upload(ctx,
		gateway.Request{Method: http.MethodPost, Path: "/collections/import/"},
		gateway.FilePart{Field: "file", Filename: filepath.Base(filename), ContentType: contentType, Data: data},
		fields, &res,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
