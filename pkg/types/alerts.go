package domain

// Price alert directions.
const (
	AlertBelow = "below"
	AlertAbove = "above"
)

// NotificationData links a notification to the record it is about.
type NotificationData struct {
	ListingID *int64 `json:"listing_id,omitempty"`
	OrderID   *int64 `json:"order_id,omitempty"`
	UserID    *int64 `json:"user_id,omitempty"`
}

// Notification is one in-app notification.
type Notification struct {
	ID      int64             `json:"id"`
	Type    string            `json:"type"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	IsRead  bool              `json:"is_read"`
	Data    *NotificationData `json:"data,omitempty"`
	Created *Timestamp        `json:"created,omitempty"`
}

// Wishlist is a named list of wanted items.
type Wishlist struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	IsPublic    bool           `json:"is_public"`
	ItemCount   int            `json:"item_count"`
	Items       []WishlistItem `json:"items,omitempty"`
	Created     *Timestamp     `json:"created,omitempty"`
}

// WishlistInput is the body for creating a wishlist.
type WishlistInput struct {
	Name        string `json:"name"                  validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
}

// WishlistItem is one wanted item and how many listings currently match it.
type WishlistItem struct {
	ID                    int64                  `json:"id"`
	PriceGuideItem        *PriceGuideItemSummary `json:"price_guide_item,omitempty"`
	CustomName            string                 `json:"custom_name,omitempty"`
	MaxPrice              *string                `json:"max_price,omitempty"`
	Notes                 string                 `json:"notes,omitempty"`
	MatchingListingsCount int                    `json:"matching_listings_count"`
}

// DisplayName is the custom name, else the catalogue name.
func (i WishlistItem) DisplayName() string {
	return displayName(i.CustomName, i.PriceGuideItem)
}

// WishlistItemInput adds an item to a wishlist. Either a catalogue item or
// a custom name identifies it.
type WishlistItemInput struct {
	PriceGuideItemID int64  `json:"price_guide_item_id,omitempty" validate:"required_without=CustomName"`
	CustomName       string `json:"custom_name,omitempty"         validate:"required_without=PriceGuideItemID,max=200"`
	MaxPrice         string `json:"max_price,omitempty"           validate:"omitempty,money"`
	Notes            string `json:"notes,omitempty"`
}

// SavedSearchFilters are the listing filters stored with a saved search.
type SavedSearchFilters struct {
	CategoryID  *int64  `json:"category_id,omitempty"`
	MinPrice    *string `json:"min_price,omitempty"`
	MaxPrice    *string `json:"max_price,omitempty"`
	Condition   string  `json:"condition,omitempty"`
	ListingType string  `json:"listing_type,omitempty"`
}

// SavedSearch is a stored listing search that notifies on new results.
type SavedSearch struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Query           string              `json:"query"`
	Filters         *SavedSearchFilters `json:"filters,omitempty"`
	NotifyEmail     bool                `json:"notify_email"`
	NotifyPush      bool                `json:"notify_push"`
	NewResultsCount int                 `json:"new_results_count"`
	Created         *Timestamp          `json:"created,omitempty"`
}

// SavedSearchInput is the body for saving a search.
type SavedSearchInput struct {
	Name        string `json:"name"                  validate:"required,max=200"`
	Query       string `json:"query"                 validate:"required"`
	CategoryID  int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	MinPrice    string `json:"min_price,omitempty"   validate:"omitempty,money"`
	MaxPrice    string `json:"max_price,omitempty"   validate:"omitempty,money"`
	NotifyEmail bool   `json:"notify_email"`
	NotifyPush  bool   `json:"notify_push"`
}

// PriceAlert fires when a catalogue item's price crosses a target.
type PriceAlert struct {
	ID             int64                 `json:"id"`
	PriceGuideItem PriceGuideItemSummary `json:"price_guide_item"`
	TargetPrice    string                `json:"target_price"`
	AlertType      string                `json:"alert_type"`
	IsActive       bool                  `json:"is_active"`
	Triggered      bool                  `json:"triggered"`
	TriggeredAt    *Timestamp            `json:"triggered_at,omitempty"`
	Created        *Timestamp            `json:"created,omitempty"`
}

// PriceAlertInput is the body for creating a price alert.
type PriceAlertInput struct {
	PriceGuideItemID int64  `json:"price_guide_item_id" validate:"required,gt=0"`
	TargetPrice      string `json:"target_price"        validate:"required,money"`
	AlertType        string `json:"alert_type"          validate:"required,oneof=below above"`
}
