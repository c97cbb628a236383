package domain

// CategoryNode is a category with its place in the category tree.
type CategoryNode struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	ParentID      *int64         `json:"parent_id,omitempty"`
	Children      []CategoryNode `json:"children,omitempty"`
	ListingsCount *int           `json:"listings_count,omitempty"`
}

// Walk calls fn for n and every descendant, depth first, with the depth of
// each node below n.
func (n CategoryNode) Walk(fn func(node CategoryNode, depth int)) {
	n.walk(fn, 0)
}

func (n CategoryNode) walk(fn func(CategoryNode, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// PublicProfile is another user's public profile.
type PublicProfile struct {
	Username         string     `json:"username"`
	AvatarURL        string     `json:"avatar_url,omitempty"`
	Bio              string     `json:"bio,omitempty"`
	Location         string     `json:"location,omitempty"`
	Website          string     `json:"website,omitempty"`
	Rating           *float64   `json:"rating,omitempty"`
	RatingCount      int        `json:"rating_count"`
	IsSellerVerified bool       `json:"is_seller_verified"`
	IsTrustedSeller  bool       `json:"is_trusted_seller"`
	IsFoundingMember bool       `json:"is_founding_member"`
	TotalSalesCount  int        `json:"total_sales_count"`
	ListingsCount    int        `json:"listings_count"`
	Created          *Timestamp `json:"created,omitempty"`
}

// SearchResult groups site-wide search hits by kind.
type SearchResult struct {
	Listings        []Listing        `json:"listings"`
	PriceGuideItems []PriceGuideItem `json:"price_guide_items"`
	Collections     []Collection     `json:"collections"`
	Users           []PublicProfile  `json:"users"`
}

// Total is the number of hits across every kind.
func (r SearchResult) Total() int {
	return len(r.Listings) + len(r.PriceGuideItems) + len(r.Collections) + len(r.Users)
}

// Autocomplete suggestion kinds.
const (
	SuggestListing  = "listing"
	SuggestItem     = "item"
	SuggestCategory = "category"
	SuggestUser     = "user"
)

// AutocompleteSuggestion is one type-ahead suggestion.
type AutocompleteSuggestion struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	ImageURL string `json:"image_url,omitempty"`
}

// AutocompleteResult is the type-ahead response.
type AutocompleteResult struct {
	Suggestions []AutocompleteSuggestion `json:"suggestions"`
}
