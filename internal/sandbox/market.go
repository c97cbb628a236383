// Package sandbox implements an in-memory HeroesAndMore marketplace for
// local development and end-to-end tests of the client. It speaks the same
// wire format as the production API for the endpoints the client uses.
package sandbox

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

const (
	pageSize = 20

	defaultAccessTTL  = 5 * time.Minute
	defaultCounterTTL = 48 * time.Hour

	// maxAutoBidRounds bounds the proxy-bid exchange between two ceilings.
	maxAutoBidRounds = 1000
)

// Listing status values used by the sandbox.
const (
	statusActive   = "active"
	statusReserved = "reserved"
	statusSold     = "sold"
	statusEnded    = "ended"
)

type account struct {
	profile  domain.Profile
	password string
	notify   domain.NotificationSettings
}

type accessGrant struct {
	userID  int64
	expires time.Time
}

type listing struct {
	domain.Listing

	sellerID     int64
	reservedBy   int64
	pendingOrder int64
	bids         []*bid
	images       []domain.ListingImage
}

// highBid returns the winning bid, or nil before the first bid.
func (l *listing) highBid() *bid {
	if len(l.bids) == 0 {
		return nil
	}
	return l.bids[len(l.bids)-1]
}

type bid struct {
	id      int64
	userID  int64
	amount  decimal.Decimal
	created time.Time
}

// Market is the sandbox's whole state behind one mutex.
type Market struct {
	mu         sync.Mutex
	now        func() time.Time
	accessTTL  time.Duration
	counterTTL time.Duration

	lastID int64

	accounts    map[int64]*account
	access      map[string]accessGrant
	refresh     map[string]int64
	listings    map[int64]*listing
	saved       map[int64]map[int64]bool
	autoBids    map[int64]*autoBid
	offers      map[int64]*offer
	orders      map[int64]*order
	intents     map[string]int64
	idempotency map[string]int64
	collections map[int64]*collection
	events      []domain.AuctionEvent
}

// Option configures a Market.
type Option func(*Market)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Market) {
		m.now = now
	}
}

// WithAccessTTL sets how long an access token stays valid.
func WithAccessTTL(d time.Duration) Option {
	return func(m *Market) {
		if d > 0 {
			m.accessTTL = d
		}
	}
}

// WithCounterOfferTTL sets how long a buyer has to answer a counter-offer.
func WithCounterOfferTTL(d time.Duration) Option {
	return func(m *Market) {
		if d > 0 {
			m.counterTTL = d
		}
	}
}

// NewMarket returns a Market populated with the seed data.
func NewMarket(opts ...Option) *Market {
	m := &Market{
		now:         time.Now,
		accessTTL:   defaultAccessTTL,
		counterTTL:  defaultCounterTTL,
		accounts:    make(map[int64]*account),
		access:      make(map[string]accessGrant),
		refresh:     make(map[string]int64),
		listings:    make(map[int64]*listing),
		saved:       make(map[int64]map[int64]bool),
		autoBids:    make(map[int64]*autoBid),
		offers:      make(map[int64]*offer),
		orders:      make(map[int64]*order),
		intents:     make(map[string]int64),
		idempotency: make(map[string]int64),
		collections: make(map[int64]*collection),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.seed(m.now())
	return m
}

func (m *Market) nextID() int64 {
	m.lastID++
	return m.lastID
}

// --- Accounts and tokens ---

// Login exchanges a username and password for a credential pair.
func (m *Market) Login(username, password string) (domain.AuthTokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, a := range m.accounts {
		if strings.EqualFold(a.profile.Username, username) && a.password == password {
			return m.issueLocked(id), nil
		}
	}
	return domain.AuthTokens{}, huma.Error401Unauthorized("No active account found with the given credentials")
}

// Register creates an account and signs it in.
func (m *Market) Register(req domain.RegisterRequest) (domain.AuthTokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case len(req.Username) < 3:
		return domain.AuthTokens{}, huma.Error400BadRequest("Username must be at least 3 characters.")
	case len(req.Password) < 8:
		return domain.AuthTokens{}, huma.Error400BadRequest("This password is too short. It must contain at least 8 characters.")
	case req.Password != req.PasswordConfirm:
		return domain.AuthTokens{}, huma.Error400BadRequest("Passwords do not match.")
	case !strings.Contains(req.Email, "@"):
		return domain.AuthTokens{}, huma.Error400BadRequest("Enter a valid email address.")
	}
	for _, a := range m.accounts {
		if strings.EqualFold(a.profile.Username, req.Username) {
			return domain.AuthTokens{}, huma.Error400BadRequest("A user with that username already exists.")
		}
	}

	id := m.nextID()
	m.addAccountLocked(id, req.Username, req.Email, req.Password, m.now())
	return m.issueLocked(id), nil
}

// Refresh exchanges a renewal token for a new pair. The old renewal token
// stops working.
func (m *Market) Refresh(token string) (domain.AuthTokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.refresh[token]
	if !ok {
		return domain.AuthTokens{}, huma.Error401Unauthorized("Token is invalid or expired")
	}
	delete(m.refresh, token)
	return m.issueLocked(id), nil
}

// Authenticate resolves an Authorization header to a user ID.
func (m *Market) Authenticate(header string) (int64, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return 0, huma.Error401Unauthorized("Authentication credentials were not provided.")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	grant, ok := m.access[token]
	if !ok || !m.now().Before(grant.expires) {
		delete(m.access, token)
		return 0, huma.Error401Unauthorized("Given token not valid for any token type")
	}
	return grant.userID, nil
}

func (m *Market) issueLocked(userID int64) domain.AuthTokens {
	tokens := domain.AuthTokens{Access: uuid.NewString(), Refresh: uuid.NewString()}
	m.access[tokens.Access] = accessGrant{userID: userID, expires: m.now().Add(m.accessTTL)}
	m.refresh[tokens.Refresh] = userID
	return tokens
}

func (m *Market) addAccountLocked(id int64, username, email, password string, joined time.Time) *account {
	a := &account{
		profile: domain.Profile{
			ID:                 id,
			Username:           username,
			Email:              email,
			IsPublic:           true,
			EmailNotifications: true,
			Created:            domain.NewTimestamp(joined),
		},
		password: password,
		notify: domain.NotificationSettings{
			EmailNotifications: true,
			PushNewBid:         true,
			PushOutbid:         true,
			PushOffer:          true,
			PushOrderShipped:   true,
			PushMessage:        true,
		},
	}
	m.accounts[id] = a
	return a
}

func (m *Market) accountLocked(id int64) (*account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, huma.Error401Unauthorized("User not found")
	}
	return a, nil
}

// Profile returns the user's own profile.
func (m *Market) Profile(userID int64) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.accountLocked(userID)
	if err != nil {
		return domain.Profile{}, err
	}
	return a.profile, nil
}

// UpdateProfile applies the set fields of upd.
func (m *Market) UpdateProfile(userID int64, upd domain.ProfileUpdate) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.accountLocked(userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if upd.Bio != nil {
		a.profile.Bio = *upd.Bio
	}
	if upd.Location != nil {
		a.profile.Location = *upd.Location
	}
	if upd.Website != nil {
		a.profile.Website = *upd.Website
	}
	if upd.IsPublic != nil {
		a.profile.IsPublic = *upd.IsPublic
	}
	return a.profile, nil
}

// ChangePassword replaces the password after checking the old one.
func (m *Market) ChangePassword(userID int64, req domain.PasswordChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.accountLocked(userID)
	if err != nil {
		return err
	}
	switch {
	case a.password != req.OldPassword:
		return huma.Error400BadRequest("Your old password was entered incorrectly.")
	case len(req.NewPassword) < 8:
		return huma.Error400BadRequest("This password is too short. It must contain at least 8 characters.")
	case req.NewPassword != req.NewPasswordConf:
		return huma.Error400BadRequest("Passwords do not match.")
	}
	a.password = req.NewPassword
	return nil
}

// NotificationSettings returns the user's notification preferences.
func (m *Market) NotificationSettings(userID int64) (domain.NotificationSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.accountLocked(userID)
	if err != nil {
		return domain.NotificationSettings{}, err
	}
	return a.notify, nil
}

// UpdateNotificationSettings applies the set fields of upd.
func (m *Market) UpdateNotificationSettings(
	userID int64,
	upd domain.NotificationSettingsUpdate,
) (domain.NotificationSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.accountLocked(userID)
	if err != nil {
		return domain.NotificationSettings{}, err
	}
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&a.notify.EmailNotifications, upd.EmailNotifications)
	set(&a.notify.PushNewBid, upd.PushNewBid)
	set(&a.notify.PushOutbid, upd.PushOutbid)
	set(&a.notify.PushOffer, upd.PushOffer)
	set(&a.notify.PushOrderShipped, upd.PushOrderShipped)
	set(&a.notify.PushMessage, upd.PushMessage)
	set(&a.notify.PushPriceAlert, upd.PushPriceAlert)
	a.profile.EmailNotifications = a.notify.EmailNotifications
	return a.notify, nil
}

// --- Listings ---

// ListingQuery filters a listing browse.
type ListingQuery struct {
	Category    string
	Search      string
	ListingType string
	Condition   string
	MinPrice    string
	MaxPrice    string
	Ordering    string
}

func (q ListingQuery) matches(l *listing) bool {
	if l.Status != statusActive {
		return false
	}
	if q.ListingType != "" && string(l.ListingType) != q.ListingType {
		return false
	}
	if q.Category != "" && (l.Category == nil || l.Category.Slug != q.Category) {
		return false
	}
	if q.Condition != "" && l.Condition != q.Condition {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(q.Search)) {
		return false
	}
	price := l.PriceDecimal()
	if lo, ok := domain.ParseMoney(q.MinPrice); ok && price.LessThan(lo) {
		return false
	}
	if hi, ok := domain.ParseMoney(q.MaxPrice); ok && price.GreaterThan(hi) {
		return false
	}
	return true
}

// ListListings returns one page of active listings matching q.
func (m *Market) ListListings(viewer int64, q ListingQuery, page int) (domain.Page[domain.Listing], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*listing
	for _, l := range m.listings {
		if q.matches(l) {
			matched = append(matched, l)
		}
	}
	sortListings(matched, q.Ordering)
	return paginate(m.viewsLocked(matched, viewer), page, "/api/v1/marketplace/listings/")
}

// Auctions returns one page of running auctions, soonest ending first.
func (m *Market) Auctions(viewer int64, page int) (domain.Page[domain.Listing], error) {
	return m.auctions(viewer, page, 0, "/api/v1/marketplace/auctions/")
}

// EndingSoon returns running auctions that end within a day.
func (m *Market) EndingSoon(viewer int64, page int) (domain.Page[domain.Listing], error) {
	return m.auctions(viewer, page, 24*time.Hour, "/api/v1/marketplace/auctions/ending-soon/")
}

func (m *Market) auctions(viewer int64, page int, within time.Duration, path string) (domain.Page[domain.Listing], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var matched []*listing
	for _, l := range m.listings {
		if !l.IsAuction() || l.Status != statusActive {
			continue
		}
		if within > 0 && (l.EndDate == nil || l.EndDate.Sub(now) > within) {
			continue
		}
		matched = append(matched, l)
	}
	sortListings(matched, "end_date")
	return paginate(m.viewsLocked(matched, viewer), page, path)
}

// AuctionEvents returns one page of platform auction events.
func (m *Market) AuctionEvents(page int) (domain.Page[domain.AuctionEvent], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return paginate(append([]domain.AuctionEvent(nil), m.events...), page, "/api/v1/marketplace/auctions/events/")
}

// Listing returns the detail view of a listing.
func (m *Market) Listing(viewer, id int64) (domain.ListingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[id]
	if !ok {
		return domain.ListingDetail{}, huma.Error404NotFound("Not found.")
	}

	d := domain.ListingDetail{
		Listing: m.viewLocked(l, viewer),
		Images:  append([]domain.ListingImage{}, l.images...),
		IsMine:  viewer != 0 && viewer == l.sellerID,
	}
	high := l.highBid()
	for i := len(l.bids) - 1; i >= 0; i-- {
		d.Bids = append(d.Bids, m.bidViewLocked(l.bids[i], high))
	}
	for _, other := range m.sortedListingsLocked() {
		if len(d.RelatedListings) == 4 {
			break
		}
		if other.ID != l.ID && other.Status == statusActive && sameCategory(other, l) {
			d.RelatedListings = append(d.RelatedListings, m.viewLocked(other, viewer))
		}
	}
	return d, nil
}

// SavedListings returns one page of the viewer's saved listings.
func (m *Market) SavedListings(viewer int64, page int) (domain.Page[domain.Listing], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*listing
	for id := range m.saved[viewer] {
		if l, ok := m.listings[id]; ok {
			matched = append(matched, l)
		}
	}
	sortListings(matched, "")
	return paginate(m.viewsLocked(matched, viewer), page, "/api/v1/marketplace/saved/")
}

// SaveListing adds a listing to the viewer's saved list.
func (m *Market) SaveListing(viewer, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[id]
	if !ok {
		return huma.Error404NotFound("Not found.")
	}
	if m.saved[viewer] == nil {
		m.saved[viewer] = make(map[int64]bool)
	}
	if !m.saved[viewer][id] {
		m.saved[viewer][id] = true
		l.WatchCount++
	}
	return nil
}

// UnsaveListing removes a listing from the viewer's saved list.
func (m *Market) UnsaveListing(viewer, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[id]
	if !ok {
		return huma.Error404NotFound("Not found.")
	}
	if m.saved[viewer][id] {
		delete(m.saved[viewer], id)
		l.WatchCount--
	}
	return nil
}

func (m *Market) viewsLocked(ls []*listing, viewer int64) []domain.Listing {
	out := make([]domain.Listing, 0, len(ls))
	for _, l := range ls {
		out = append(out, m.viewLocked(l, viewer))
	}
	return out
}

// viewLocked renders l as the viewer sees it.
func (m *Market) viewLocked(l *listing, viewer int64) domain.Listing {
	v := l.Listing
	v.BidCount = len(l.bids)
	v.IsWatched = m.saved[viewer][l.ID]
	if high := l.highBid(); high != nil {
		s := domain.FormatMoney(high.amount)
		v.CurrentBid = &s
	}
	if a, ok := m.accounts[l.sellerID]; ok {
		v.Seller = domain.Seller{
			Username:    a.profile.Username,
			AvatarURL:   a.profile.AvatarURL,
			Rating:      a.profile.Rating,
			RatingCount: a.profile.RatingCount,
			IsVerified:  a.profile.IsSellerVerified,
		}
	}
	return v
}

func (m *Market) sortedListingsLocked() []*listing {
	ls := make([]*listing, 0, len(m.listings))
	for _, l := range m.listings {
		ls = append(ls, l)
	}
	sort.Slice(ls, func(i, j int) bool { return ls[i].ID < ls[j].ID })
	return ls
}

func sameCategory(a, b *listing) bool {
	return a.Category != nil && b.Category != nil && a.Category.ID == b.Category.ID
}

// sortListings orders ls by a Django-style ordering key; newest first by
// default. Ties break on ID so pages are stable.
func sortListings(ls []*listing, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	key := strings.TrimPrefix(ordering, "-")

	cmp := func(a, b *listing) int {
		switch key {
		case "price":
			return a.PriceDecimal().Cmp(b.PriceDecimal())
		case "end_date":
			return compareTimes(a.EndDate, b.EndDate)
		default:
			return compareTimes(b.Created, a.Created)
		}
	}
	sort.SliceStable(ls, func(i, j int) bool {
		c := cmp(ls[i], ls[j])
		if desc {
			c = -c
		}
		if c == 0 {
			return ls[i].ID < ls[j].ID
		}
		return c < 0
	})
}

func compareTimes(a, b *domain.Timestamp) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(b.Time)
	}
}

// paginate slices items into fixed-size pages. Page 1 always exists; any
// other page past the end is a 404, as on the production API.
func paginate[T any](items []T, page int, path string) (domain.Page[T], error) {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) && page > 1 {
		return domain.Page[T]{}, huma.Error404NotFound("Invalid page.")
	}

	end := min(start+pageSize, len(items))
	p := domain.Page[T]{Count: len(items), Results: make([]T, 0, end-start)}
	p.Results = append(p.Results, items[start:end]...)
	if end < len(items) {
		next := fmt.Sprintf("%s?page=%d", path, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := fmt.Sprintf("%s?page=%d", path, page-1)
		p.Previous = &prev
	}
	return p, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, ok := domain.ParseMoney(s)
	if !ok || !d.IsPositive() || !d.Equal(d.Round(2)) {
		return decimal.Zero, huma.Error400BadRequest("Enter a valid amount.")
	}
	return d, nil
}
