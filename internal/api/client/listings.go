package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nadermx/heroesandmore-client/internal/gateway"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// ListListings returns one page of active listings matching f.
func (c *Client) ListListings(ctx context.Context, f domain.ListingFilter) (*domain.Page[domain.Listing], error) {
	if err := c.check(f); err != nil {
		return nil, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return getPage[domain.Listing](ctx, c, "/marketplace/listings/", f.Values())
}

// AllListings follows every page of listings matching f.
func (c *Client) AllListings(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	return CollectAll(ctx, func(ctx context.Context, page int) (*domain.Page[domain.Listing], error) {
		f.Page = page
		return c.ListListings(ctx, f)
	}, c.maxPages)
}

// GetListing returns the full listing, including its images and bids.
func (c *Client) GetListing(ctx context.Context, id int64) (*domain.ListingDetail, error) {
	if err := requireID("listing id", id); err != nil {
		return nil, err
	}
	var l domain.ListingDetail
	if err := c.gw.Get(ctx, fmt.Sprintf("/marketplace/listings/%d/", id), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) SavedListings(ctx context.Context, page int) (*domain.Page[domain.Listing], error) {
	return getPage[domain.Listing](ctx, c, "/marketplace/saved/", pageQuery(page))
}

// SaveListing adds a listing to the watch list.
func (c *Client) SaveListing(ctx context.Context, id int64) error {
	if err := requireID("listing id", id); err != nil {
		return err
	}
	return c.gw.Post(ctx, fmt.Sprintf("/marketplace/listings/%d/save/", id), nil, nil)
}

// UnsaveListing removes a listing from the watch list.
func (c *Client) UnsaveListing(ctx context.Context, id int64) error {
	if err := requireID("listing id", id); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/marketplace/listings/%d/save/", id), nil)
}

// CreateListing creates a draft listing owned by the signed-in seller.
func (c *Client) CreateListing(ctx context.Context, in domain.ListingInput) (*domain.Listing, error) {
	if in.Title == "" || in.Price == "" || in.CategoryID <= 0 {
		return nil, invalid("title, price and category are required")
	}
	if in.ListingType == "" {
		in.ListingType = domain.ListingFixed
	}
	if err := c.check(in); err != nil {
		return nil, err
	}
	var l domain.Listing
	if err := c.gw.Post(ctx, "/marketplace/listings/", in, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateListing changes the set fields of a listing.
func (c *Client) UpdateListing(ctx context.Context, id int64, in domain.ListingInput) (*domain.Listing, error) {
	if err := requireID("listing id", id); err != nil {
		return nil, err
	}
	if err := c.check(in); err != nil {
		return nil, err
	}
	var l domain.Listing
	if err := c.gw.Patch(ctx, fmt.Sprintf("/marketplace/listings/%d/", id), in, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) DeleteListing(ctx context.Context, id int64) error {
	if err := requireID("listing id", id); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/marketplace/listings/%d/", id), nil)
}

// PublishListing makes a draft listing active.
func (c *Client) PublishListing(ctx context.Context, id int64) (*domain.Listing, error) {
	if err := requireID("listing id", id); err != nil {
		return nil, err
	}
	var l domain.Listing
	if err := c.gw.Post(ctx, fmt.Sprintf("/marketplace/listings/%d/publish/", id), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UploadListingImage attaches a JPEG image to a listing.
func (c *Client) UploadListingImage(
	ctx context.Context,
	listingID int64,
	image []byte,
	primary bool,
) (*domain.ListingImage, error) {
	if err := requireID("listing id", listingID); err != nil {
		return nil, err
	}
	var q url.Values
	if primary {
		q = url.Values{"is_primary": {"true"}}
	}

	var img domain.ListingImage
	err := c.gw.Upload(ctx,
		gateway.Request{
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/marketplace/listings/%d/images/", listingID),
			Query:  q,
		},
		gateway.FilePart{Field: "image", Filename: "listing_image.jpg", ContentType: "image/jpeg", Data: image},
		nil, &img,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (c *Client) DeleteListingImage(ctx context.Context, listingID, imageID int64) error {
	if err := requireID("listing id", listingID); err != nil {
		return err
	}
	if err := requireID("image id", imageID); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/marketplace/listings/%d/images/%d/", listingID, imageID), nil)
}

// Auctions returns one page of active auction listings.
func (c *Client) Auctions(ctx context.Context, page int) (*domain.Page[domain.Listing], error) {
	return getPage[domain.Listing](ctx, c, "/marketplace/auctions/", pageQuery(page))
}

// EndingSoon returns auctions closest to their end date first.
func (c *Client) EndingSoon(ctx context.Context, page int) (*domain.Page[domain.Listing], error) {
	return getPage[domain.Listing](ctx, c, "/marketplace/auctions/ending-soon/", pageQuery(page))
}

func (c *Client) AuctionEvents(ctx context.Context, page int) (*domain.Page[domain.AuctionEvent], error) {
	return getPage[domain.AuctionEvent](ctx, c, "/marketplace/auctions/events/", pageQuery(page))
}
