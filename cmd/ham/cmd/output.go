package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nadermx/heroesandmore-client/internal/negotiation"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

const timeLayout = "2006-01-02 15:04"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProfile(p *domain.Profile) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", p.ID)
	tw.writef("Username:\t%s\n", p.Username)
	tw.writef("Email:\t%s\n", p.Email)
	if p.Location != "" {
		tw.writef("Location:\t%s\n", p.Location)
	}
	if p.Rating != nil {
		tw.writef("Rating:\t%.1f (%d)\n", *p.Rating, p.RatingCount)
	}
	tw.writef("Sales:\t%d\n", p.TotalSalesCount)
	tw.writef("Verified seller:\t%v\n", p.IsSellerVerified)
	return tw.finish()
}

func printListingsTable(listings []domain.Listing) error {
	now := time.Now()
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tTITLE\tTYPE\tPRICE\tCURRENT BID\tBIDS\tENDS\tSELLER\n")
	for i := range listings {
		l := &listings[i]
		title := truncate(l.Title, 40)
		if l.IsHot(now) {
			title += " *"
		}
		tw.writef("%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			l.ID,
			title,
			l.ListingType,
			money(l.Price),
			moneyPtr(l.CurrentBid),
			l.BidCount,
			timestamp(l.EndDate),
			l.Seller.Username,
		)
	}
	return tw.finish()
}

func printListingDetail(l *domain.ListingDetail) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", l.ID)
	tw.writef("Title:\t%s\n", l.Title)
	tw.writef("Type:\t%s\n", l.ListingType)
	tw.writef("Status:\t%s\n", l.Status)
	tw.writef("Price:\t%s\n", money(l.Price))
	if l.IsAuction() {
		tw.writef("Current bid:\t%s (%d bids)\n", moneyPtr(l.CurrentBid), l.BidCount)
		tw.writef("Next bid:\t$%s\n", domain.FormatMoney(negotiation.SuggestedBid(&l.Listing)))
		tw.writef("Ends:\t%s\n", timestamp(l.EndDate))
	}
	tw.writef("Shipping:\t%s\n", moneyPtr(l.ShippingPrice))
	if l.ConditionDisplay != "" {
		tw.writef("Condition:\t%s\n", l.ConditionDisplay)
	}
	tw.writef("Seller:\t%s\n", l.Seller.Username)
	tw.writef("Accepts offers:\t%v\n", l.AcceptsOffers)
	tw.writef("Watchers:\t%d\n", l.WatchCount)
	if img := l.PrimaryImageURL(); img != "" {
		tw.writef("Image:\t%s\n", img)
	}
	tw.writef("Mine:\t%v\n", l.IsMine)
	return tw.finish()
}

func printBidResult(res *negotiation.BidResult) error {
	tw := newTabWriter(os.Stdout)
	if res.Bid != nil {
		tw.writef("Bid:\t$%s\n", res.Bid.Amount)
		tw.writef("Winning:\t%v\n", res.Bid.IsWinning)
	}
	if res.Listing != nil {
		tw.writef("Current bid:\t%s (%d bids)\n", moneyPtr(res.Listing.CurrentBid), res.Listing.BidCount)
		tw.writef("Next bid:\t$%s\n", domain.FormatMoney(res.NextBid))
	}
	return tw.finish()
}

func printAutoBidsTable(bids []domain.AutoBid) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tLISTING\tTITLE\tMAX\tCURRENT BID\tACTIVE\n")
	for i := range bids {
		b := &bids[i]
		tw.writef("%d\t%d\t%s\t%s\t%s\t%v\n",
			b.ID,
			b.Listing.ID,
			truncate(b.Listing.Title, 40),
			money(b.MaxAmount),
			moneyPtr(b.Listing.CurrentBid),
			b.IsActive,
		)
	}
	return tw.finish()
}

func printOffersTable(offers []domain.Offer) error {
	now := time.Now()
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tLISTING\tAMOUNT\tCOUNTER\tSTATUS\tROLE\tACTIONS\tEXPIRES\n")
	for i := range offers {
		o := &offers[i]
		role := roleOf(o)
		tw.writef("%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID,
			truncate(o.Listing.Title, 30),
			money(o.Amount),
			moneyPtr(o.CounterAmount),
			o.DisplayStatus(now),
			role,
			actionList(negotiation.Allowed(o, role, now)),
			expiry(o),
		)
	}
	return tw.finish()
}

func printOffer(o *domain.Offer) error {
	now := time.Now()
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", o.ID)
	tw.writef("Listing:\t%d %s\n", o.Listing.ID, o.Listing.Title)
	tw.writef("Amount:\t%s\n", money(o.Amount))
	if o.CounterAmount != nil {
		tw.writef("Counter:\t%s\n", moneyPtr(o.CounterAmount))
	}
	tw.writef("Status:\t%s\n", o.DisplayStatus(now))
	if o.ExpiresAt != nil {
		tw.writef("Expires:\t%s\n", expiry(o))
	}
	tw.writef("Next:\t%s\n", actionList(negotiation.Allowed(o, roleOf(o), now)))
	return tw.finish()
}

func printOrdersTable(orders []domain.Order) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNUMBER\tLISTING\tTOTAL\tSTATUS\tBUYER\tSELLER\tCREATED\n")
	for i := range orders {
		o := &orders[i]
		tw.writef("%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID,
			o.OrderNumber,
			truncate(o.Listing.Title, 30),
			money(o.Total),
			o.Status,
			o.Buyer.Username,
			o.Seller.Username,
			timestamp(o.Created),
		)
	}
	return tw.finish()
}

func printOrderDetail(o *domain.Order) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", o.ID)
	tw.writef("Number:\t%s\n", o.OrderNumber)
	tw.writef("Listing:\t%d %s\n", o.Listing.ID, o.Listing.Title)
	tw.writef("Total:\t%s\n", money(o.Total))
	tw.writef("Status:\t%s\n", o.Status)
	tw.writef("Buyer:\t%s\n", o.Buyer.Username)
	tw.writef("Seller:\t%s\n", o.Seller.Username)
	if o.TrackingNumber != nil {
		carrier := ""
		if o.TrackingCarrier != nil {
			carrier = *o.TrackingCarrier + " "
		}
		tw.writef("Tracking:\t%s%s\n", carrier, *o.TrackingNumber)
	}
	tw.writef("Paid:\t%s\n", timestamp(o.PaidAt))
	tw.writef("Shipped:\t%s\n", timestamp(o.ShippedAt))
	tw.writef("Delivered:\t%s\n", timestamp(o.DeliveredAt))
	return tw.finish()
}

func printReview(r *domain.Review) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", r.ID)
	tw.writef("Rating:\t%d\n", r.Rating)
	if r.Comment != "" {
		tw.writef("Comment:\t%s\n", r.Comment)
	}
	return tw.finish()
}

func printCheckout(o *domain.CheckoutResult, pc *domain.PaymentConfirmation) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Order:\t%d\n", o.OrderID)
	if o.Total != "" {
		tw.writef("Subtotal:\t%s\n", money(o.Subtotal))
		tw.writef("Shipping:\t%s\n", money(o.Shipping))
		tw.writef("Total:\t%s\n", money(o.Total))
	}
	tw.writef("Status:\t%s\n", pc.Status)
	return tw.finish()
}

func printCollectionsTable(cs []domain.Collection) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tITEMS\tVALUE\tPUBLIC\n")
	for i := range cs {
		tw.writef("%d\t%s\t%d\t%s\t%v\n",
			cs[i].ID,
			truncate(cs[i].Name, 40),
			cs[i].ItemCount,
			moneyPtr(cs[i].TotalValue),
			cs[i].IsPublic,
		)
	}
	return tw.finish()
}

func printPriceGuideItem(item *domain.PriceGuideItem, grades []domain.GradePrice) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", item.ID)
	tw.writef("Name:\t%s\n", item.Name)
	if item.Year != nil {
		tw.writef("Year:\t%d\n", *item.Year)
	}
	tw.writef("Average:\t%s\n", moneyPtr(item.AveragePrice))
	tw.writef("Range:\t%s - %s\n", moneyPtr(item.LowPrice), moneyPtr(item.HighPrice))
	tw.writef("Last sale:\t%s on %s\n", moneyPtr(item.LastSalePrice), timestamp(item.LastSaleDate))
	tw.writef("Sales:\t%d\n", item.SalesCount)
	if len(grades) > 0 {
		tw.writef("\nGRADE\tCOMPANY\tAVERAGE\tLOW\tHIGH\tSALES\n")
		for _, g := range grades {
			tw.writef("%s\t%s\t%s\t%s\t%s\t%d\n",
				g.Grade, g.GradeCompany,
				moneyPtr(g.AveragePrice), moneyPtr(g.LowPrice), moneyPtr(g.HighPrice),
				g.SalesCount,
			)
		}
	}
	return tw.finish()
}

func printTrendingTable(items []domain.TrendingItem) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tPRICE\tCHANGE\tTREND\n")
	for i := range items {
		change := "-"
		if p := items[i].PriceChangePercent; p != nil {
			change = *p + "%"
		}
		tw.writef("%d\t%s\t%s\t%s\t%s\n",
			items[i].ID,
			truncate(items[i].Name, 40),
			moneyPtr(items[i].CurrentPrice),
			change,
			items[i].Trend,
		)
	}
	return tw.finish()
}

func printSearchResult(res *domain.SearchResult) error {
	if res.Total() == 0 {
		fmt.Println("No results.")
		return nil
	}
	tw := newTabWriter(os.Stdout)
	tw.writef("KIND\tID\tNAME\n")
	for i := range res.Listings {
		tw.writef("listing\t%d\t%s\n", res.Listings[i].ID, truncate(res.Listings[i].Title, 50))
	}
	for i := range res.PriceGuideItems {
		tw.writef("item\t%d\t%s\n", res.PriceGuideItems[i].ID, truncate(res.PriceGuideItems[i].Name, 50))
	}
	for i := range res.Collections {
		tw.writef("collection\t%d\t%s\n", res.Collections[i].ID, truncate(res.Collections[i].Name, 50))
	}
	for i := range res.Users {
		tw.writef("user\t-\t%s\n", res.Users[i].Username)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func money(s string) string {
	if s == "" {
		return "-"
	}
	return "$" + s
}

func moneyPtr(s *string) string {
	if s == nil {
		return "-"
	}
	return money(*s)
}

func timestamp(ts *domain.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(timeLayout)
}

func expiry(o *domain.Offer) string {
	if o.TimeRemaining != "" {
		return o.TimeRemaining
	}
	return timestamp(o.ExpiresAt)
}

func actionList(actions []negotiation.Action) string {
	if len(actions) == 0 {
		return "-"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ",")
}
