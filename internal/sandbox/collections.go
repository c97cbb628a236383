package sandbox

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// CollectionItem is one entry of a collection export.
type CollectionItem struct {
	Name      string `json:"name"`
	Year      string `json:"year,omitempty"`
	Condition string `json:"condition,omitempty"`
	Value     string `json:"value,omitempty"`
}

var csvHeader = []string{"name", "year", "condition", "value"}

type collection struct {
	id          int64
	ownerID     int64
	name        string
	description string
	public      bool
	items       []CollectionItem
	created     time.Time
}

func (c *collection) view() domain.Collection {
	total := decimal.Zero
	for _, it := range c.items {
		if v, ok := domain.ParseMoney(it.Value); ok {
			total = total.Add(v)
		}
	}
	s := domain.FormatMoney(total)
	return domain.Collection{
		ID:          c.id,
		Name:        c.name,
		Description: c.description,
		IsPublic:    c.public,
		ItemCount:   len(c.items),
		TotalValue:  &s,
		Created:     domain.NewTimestamp(c.created),
		Updated:     domain.NewTimestamp(c.created),
	}
}

// MyCollections returns one page of the viewer's collections.
func (m *Market) MyCollections(viewer int64, page int) (domain.Page[domain.Collection], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mine []*collection
	for _, c := range m.collections {
		if c.ownerID == viewer {
			mine = append(mine, c)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].id < mine[j].id })

	out := make([]domain.Collection, 0, len(mine))
	for _, c := range mine {
		out = append(out, c.view())
	}
	return paginate(out, page, "/api/v1/collections/mine/")
}

// ExportCollection renders a collection as JSON or CSV. Private collections
// are only visible to their owner.
func (m *Market) ExportCollection(viewer, id int64, format string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[id]
	if !ok || (!c.public && c.ownerID != viewer) {
		return nil, "", huma.Error404NotFound("Not found.")
	}

	switch format {
	case "", "json":
		data, err := json.MarshalIndent(c.items, "", "  ")
		if err != nil {
			return nil, "", huma.Error500InternalServerError("encoding export", err)
		}
		return data, "application/json", nil
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write(csvHeader)
		for _, it := range c.items {
			_ = w.Write([]string{it.Name, it.Year, it.Condition, it.Value})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", huma.Error500InternalServerError("encoding export", err)
		}
		return buf.Bytes(), "text/csv", nil
	default:
		return nil, "", huma.Error400BadRequest("Unsupported export format.")
	}
}

// ImportCollection creates a collection for viewer from a JSON or CSV
// export. Rows without a name are counted but skipped.
func (m *Market) ImportCollection(viewer int64, filename string, r io.Reader, name string) (domain.ImportResult, error) {
	items, err := decodeItems(filename, r)
	if err != nil {
		return domain.ImportResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	c := &collection{id: m.nextID(), ownerID: viewer, name: name, created: m.now()}
	for _, it := range items {
		if strings.TrimSpace(it.Name) != "" {
			c.items = append(c.items, it)
		}
	}
	m.collections[c.id] = c

	return domain.ImportResult{
		CollectionID:   c.id,
		CollectionName: c.name,
		ItemsImported:  len(c.items),
		ItemsTotal:     len(items),
	}, nil
}

func decodeItems(filename string, r io.Reader) ([]CollectionItem, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		var items []CollectionItem
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, huma.Error400BadRequest("Invalid JSON file.")
		}
		return items, nil
	case ".csv":
		rows, err := csv.NewReader(r).ReadAll()
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid CSV file.")
		}
		if len(rows) == 0 {
			return nil, nil
		}
		col := make(map[string]int, len(rows[0]))
		for i, h := range rows[0] {
			col[strings.ToLower(strings.TrimSpace(h))] = i
		}
		if _, ok := col["name"]; !ok {
			return nil, huma.Error400BadRequest("CSV file needs a name column.")
		}
		get := func(row []string, key string) string {
			if i, ok := col[key]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		items := make([]CollectionItem, 0, len(rows)-1)
		for _, row := range rows[1:] {
			items = append(items, CollectionItem{
				Name:      get(row, "name"),
				Year:      get(row, "year"),
				Condition: get(row, "condition"),
				Value:     get(row, "value"),
			})
		}
		return items, nil
	default:
		return nil, huma.Error400BadRequest("Upload a .json or .csv file.")
	}
}
