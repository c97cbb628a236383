package domain

// Price history periods accepted by the history endpoint.
const (
	Period30Days = "30d"
	Period90Days = "90d"
	Period1Year  = "1y"
	PeriodAll    = "all"
)

// Trend directions reported for trending items.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// PriceGuideItem is a catalogue entry with its market summary.
type PriceGuideItem struct {
	ID                    int64      `json:"id"`
	Name                  string     `json:"name"`
	Description           string     `json:"description,omitempty"`
	Year                  *int       `json:"year,omitempty"`
	Category              *Category  `json:"category,omitempty"`
	ImageURL              string     `json:"image_url,omitempty"`
	AveragePrice          *string    `json:"average_price,omitempty"`
	LowPrice              *string    `json:"low_price,omitempty"`
	HighPrice             *string    `json:"high_price,omitempty"`
	LastSalePrice         *string    `json:"last_sale_price,omitempty"`
	LastSaleDate          *Timestamp `json:"last_sale_date,omitempty"`
	SalesCount            int        `json:"sales_count"`
	PriceChange30d        *string    `json:"price_change_30d,omitempty"`
	PriceChangePercent30d *string    `json:"price_change_percent_30d,omitempty"`
}

// PriceGuideFilter narrows the catalogue listing. Zero fields are omitted
// from the query.
type PriceGuideFilter struct {
	Page     int
	Category int64
	Search   string
	Ordering string
}

// GradePrice summarises sales of one item at one grade.
type GradePrice struct {
	Grade         string     `json:"grade"`
	GradeCompany  string     `json:"grade_company"`
	AveragePrice  *string    `json:"average_price,omitempty"`
	LowPrice      *string    `json:"low_price,omitempty"`
	HighPrice     *string    `json:"high_price,omitempty"`
	SalesCount    int        `json:"sales_count"`
	LastSalePrice *string    `json:"last_sale_price,omitempty"`
	LastSaleDate  *Timestamp `json:"last_sale_date,omitempty"`
}

// SaleRecord is one recorded sale of a catalogue item.
type SaleRecord struct {
	ID           int64      `json:"id"`
	Price        string     `json:"price"`
	Grade        string     `json:"grade,omitempty"`
	GradeCompany string     `json:"grade_company,omitempty"`
	Source       string     `json:"source"`
	SaleDate     *Timestamp `json:"sale_date,omitempty"`
	Platform     string     `json:"platform,omitempty"`
}

// PricePoint is one charted point of an item's price history.
type PricePoint struct {
	Date         string `json:"date"`
	AveragePrice string `json:"average_price"`
	SalesCount   int    `json:"sales_count"`
}

// TrendingItem is a catalogue item whose price moved recently.
type TrendingItem struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	ImageURL           string  `json:"image_url,omitempty"`
	CurrentPrice       *string `json:"current_price,omitempty"`
	PriceChange        *string `json:"price_change,omitempty"`
	PriceChangePercent *string `json:"price_change_percent,omitempty"`
	Trend              string  `json:"trend"`
}
