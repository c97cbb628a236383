package domain

// Scan states.
const (
	ScanPending   = "pending"
	ScanCompleted = "completed"
	ScanFailed    = "failed"
)

// ScanMatch is one catalogue item a scanned image may show.
type ScanMatch struct {
	PriceGuideItemID int64   `json:"price_guide_item_id"`
	Name             string  `json:"name"`
	ImageURL         string  `json:"image_url,omitempty"`
	Confidence       float64 `json:"confidence"`
	AveragePrice     *string `json:"average_price,omitempty"`
}

// ConfidencePercent is Confidence as a whole percentage, truncated.
func (m ScanMatch) ConfidencePercent() int {
	return int(m.Confidence * 100)
}

// ScanResult is an uploaded image and the items it was matched to.
type ScanResult struct {
	ID      int64       `json:"id"`
	Image   string      `json:"image"`
	Status  string      `json:"status"`
	Matches []ScanMatch `json:"matches"`
	Created *Timestamp  `json:"created,omitempty"`
}

// BestMatch is the highest-confidence match, or false when there are none.
func (r ScanResult) BestMatch() (ScanMatch, bool) {
	if len(r.Matches) == 0 {
		return ScanMatch{}, false
	}
	best := r.Matches[0]
	for _, m := range r.Matches[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}
	return best, true
}

// ScanSession groups scans taken together, such as a box of comics.
type ScanSession struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name,omitempty"`
	ScanCount int          `json:"scan_count"`
	Created   *Timestamp   `json:"created,omitempty"`
	Scans     []ScanResult `json:"scans,omitempty"`
}

// ScanSessionInput is the body for starting a scan session.
type ScanSessionInput struct {
	Name string `json:"name,omitempty" validate:"omitempty,max=200"`
}
