package domain

// Collection is a user's named set of collectibles.
type Collection struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsPublic    bool       `json:"is_public"`
	CoverImage  string     `json:"cover_image,omitempty"`
	ItemCount   int        `json:"item_count"`
	TotalValue  *string    `json:"total_value,omitempty"`
	Created     *Timestamp `json:"created,omitempty"`
	Updated     *Timestamp `json:"updated,omitempty"`
}

// CollectionOwner is the owner summary embedded in a collection detail.
type CollectionOwner struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// CollectionDetail is a collection with its items and valuation history.
type CollectionDetail struct {
	Collection

	Owner        CollectionOwner  `json:"owner"`
	Items        []CollectionItem `json:"items"`
	ValueHistory []ValueSnapshot  `json:"value_history,omitempty"`
}

// PriceGuideItemSummary is the catalogue entry embedded in collection,
// wishlist and alert records.
type PriceGuideItemSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Year     *int   `json:"year,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// CollectionItem is one collectible held in a collection.
type CollectionItem struct {
	ID             int64                  `json:"id"`
	PriceGuideItem *PriceGuideItemSummary `json:"price_guide_item,omitempty"`
	CustomName     string                 `json:"custom_name,omitempty"`
	Grade          string                 `json:"grade,omitempty"`
	GradeCompany   string                 `json:"grade_company,omitempty"`
	CertNumber     string                 `json:"cert_number,omitempty"`
	PurchasePrice  *string                `json:"purchase_price,omitempty"`
	PurchaseDate   *Timestamp             `json:"purchase_date,omitempty"`
	CurrentValue   *string                `json:"current_value,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	Image          string                 `json:"image,omitempty"`
	Created        *Timestamp             `json:"created,omitempty"`
}

// DisplayName is the custom name, else the catalogue name.
func (i CollectionItem) DisplayName() string {
	return displayName(i.CustomName, i.PriceGuideItem)
}

func displayName(custom string, item *PriceGuideItemSummary) string {
	switch {
	case custom != "":
		return custom
	case item != nil && item.Name != "":
		return item.Name
	default:
		return "Unknown Item"
	}
}

// CollectionInput is the body for creating a collection.
type CollectionInput struct {
	Name        string `json:"name"                  validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
}

// CollectionUpdate changes only the fields that are set.
type CollectionUpdate struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// CollectionItemInput adds an item to a collection. Either a catalogue item
// or a custom name identifies it.
type CollectionItemInput struct {
	PriceGuideItemID int64  `json:"price_guide_item_id,omitempty" validate:"required_without=CustomName"`
	CustomName       string `json:"custom_name,omitempty"         validate:"required_without=PriceGuideItemID,max=200"`
	Grade            string `json:"grade,omitempty"`
	GradeCompany     string `json:"grade_company,omitempty"`
	CertNumber       string `json:"cert_number,omitempty"`
	PurchasePrice    string `json:"purchase_price,omitempty"      validate:"omitempty,money"`
	PurchaseDate     string `json:"purchase_date,omitempty"       validate:"omitempty,datetime=2006-01-02"`
	Notes            string `json:"notes,omitempty"`
}

// ValueSnapshot is a collection's value on one day.
type ValueSnapshot struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// ValueSummary is a collection's current valuation against its cost.
type ValueSummary struct {
	TotalValue      string     `json:"total_value"`
	TotalCost       string     `json:"total_cost"`
	TotalGainLoss   string     `json:"total_gain_loss"`
	GainLossPercent string     `json:"gain_loss_percent"`
	ItemCount       int        `json:"item_count"`
	LastUpdated     *Timestamp `json:"last_updated,omitempty"`
}

// ImportResult reports the outcome of a collection file import.
type ImportResult struct {
	CollectionID   int64  `json:"collection_id"`
	CollectionName string `json:"collection_name"`
	ItemsImported  int    `json:"items_imported"`
	ItemsTotal     int    `json:"items_total"`
}
