// Command hotelctl is a terminal client for the hotel booking API.
//
//	hotelctl [-email e -password p] hotels [-q term] [-min-price n] [-max-price n] [-page n]
//	hotelctl quote -hotel id -in 2024-06-01 -out 2024-06-04
//	hotelctl -email e -password p book -hotel id -in ... -out ... [-guests n]
//	hotelctl -email e -password p bookings [-cancel id]
//	hotelctl -email e -password p stats
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/bookingapi"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/slices"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger("dev", "warn")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hotelctl:", err)
		os.Exit(1)
	}
}

type cli struct {
	client   *bookingapi.Client
	auth     *slices.AuthSlice
	hotels   *slices.HotelSlice
	bookings *slices.BookingSlice
	pageSize int
	out      io.Writer
}

func run(ctx context.Context, args []string, cfg shared.Config, out io.Writer) error {
	global := flag.NewFlagSet("hotelctl", flag.ContinueOnError)
	global.SetOutput(out)
	base := global.String("api", cfg.APIBaseURL, "API base URL")
	email := global.String("email", os.Getenv("HOTELCTL_EMAIL"), "login email")
	password := global.String("password", os.Getenv("HOTELCTL_PASSWORD"), "login password")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		return errors.New("missing command: hotels | quote | book | bookings | stats")
	}

	client, err := bookingapi.New(*base, cfg.ClientRPS)
	if err != nil {
		return err
	}
	c := &cli{
		client:   client,
		auth:     slices.NewAuthSlice(client),
		hotels:   slices.NewHotelSlice(client),
		bookings: slices.NewBookingSlice(client),
		pageSize: cfg.PageSize,
		out:      out,
	}
	if *email != "" {
		if _, err := c.auth.Login(ctx, *email, *password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "hotels":
		return c.listHotels(ctx, rest)
	case "quote":
		return c.quote(ctx, rest)
	case "book":
		return c.book(ctx, rest)
	case "bookings":
		return c.listBookings(ctx, rest)
	case "stats":
		return c.stats(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// guard applies the same access rules as the web client before calling the API.
func (c *cli) guard(adminOnly bool) error {
	switch c.auth.Access(adminOnly) {
	case app.RedirectLogin:
		return errors.New("login required (use -email and -password)")
	case app.RedirectDashboard:
		return errors.New("admin role required")
	}
	return nil
}

type floatFlag struct{ v *float64 }

func (f *floatFlag) String() string {
	if f.v == nil {
		return ""
	}
	return fmt.Sprint(*f.v)
}

func (f *floatFlag) Set(s string) error {
	var v float64
	if _, err := fmt.Sscan(s, &v); err != nil {
		return err
	}
	f.v = &v
	return nil
}

func (c *cli) listHotels(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hotels", flag.ContinueOnError)
	fs.SetOutput(c.out)
	q := fs.String("q", "", "match name or location")
	var minPrice, maxPrice, minRating floatFlag
	fs.Var(&minPrice, "min-price", "minimum nightly price")
	fs.Var(&maxPrice, "max-price", "maximum nightly price")
	fs.Var(&minRating, "min-rating", "minimum rating")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.hotels.Fetch(ctx); err != nil {
		return err
	}
	pg := c.hotels.Page(domain.HotelFilter{
		Search: *q, MinPrice: minPrice.v, MaxPrice: maxPrice.v, MinRating: minRating.v,
	}, domain.PageQuery{Page: *page, Size: c.pageSize})

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tPRICE\tRATING\tROOMS")
	for _, h := range pg.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.1f\t%d\n", h.ID, h.Name, h.Location, h.Price, h.Rating, h.AvailableRooms)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "page %d/%d (%d hotels)\n", pg.Page, pg.TotalPages, pg.Total)
	return nil
}

type stayFlags struct {
	hotel   *int64
	in, out *string
}

func addStayFlags(fs *flag.FlagSet) stayFlags {
	return stayFlags{
		hotel: fs.Int64("hotel", 0, "hotel id"),
		in:    fs.String("in", "", "check-in date (YYYY-MM-DD)"),
		out:   fs.String("out", "", "check-out date (YYYY-MM-DD)"),
	}
}

func (s stayFlags) parse() (int64, domain.Date, domain.Date, error) {
	if *s.hotel <= 0 {
		return 0, domain.Date{}, domain.Date{}, errors.New("-hotel is required")
	}
	in, err := domain.ParseDate(*s.in)
	if err != nil {
		return 0, domain.Date{}, domain.Date{}, err
	}
	out, err := domain.ParseDate(*s.out)
	if err != nil {
		return 0, domain.Date{}, domain.Date{}, err
	}
	return *s.hotel, in, out, nil
}

func (c *cli) quote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	fs.SetOutput(c.out)
	stay := addStayFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, in, out, err := stay.parse()
	if err != nil {
		return err
	}
	if err := c.hotels.Fetch(ctx); err != nil {
		return err
	}
	q, err := c.hotels.Quote(id, in, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d nights x $%.2f = $%.2f\n", q.Nights, q.NightlyRate, q.Total)
	return nil
}

func (c *cli) book(ctx context.Context, args []string) error {
	if err := c.guard(false); err != nil {
		return err
	}
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	fs.SetOutput(c.out)
	stay := addStayFlags(fs)
	guests := fs.Int("guests", 1, "number of guests")
	requests := fs.String("requests", "", "special requests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, in, out, err := stay.parse()
	if err != nil {
		return err
	}
	b, err := c.bookings.Create(ctx, app.BookingInput{
		HotelID: id, CheckIn: in, CheckOut: out, GuestCount: *guests, SpecialRequests: *requests,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "booking %d %s: %s -> %s, total $%.2f\n", b.ID, b.Status, b.CheckIn, b.CheckOut, b.TotalPrice)
	return nil
}

func (c *cli) listBookings(ctx context.Context, args []string) error {
	if err := c.guard(false); err != nil {
		return err
	}
	fs := flag.NewFlagSet("bookings", flag.ContinueOnError)
	fs.SetOutput(c.out)
	cancel := fs.Int64("cancel", 0, "cancel the booking with this id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, _ := c.auth.User()
	if err := c.bookings.FetchForUser(ctx, u.ID); err != nil {
		return err
	}
	if *cancel > 0 {
		if _, err := c.bookings.Cancel(ctx, *cancel); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tHOTEL\tCHECK-IN\tCHECK-OUT\tGUESTS\tTOTAL\tSTATUS")
	for _, b := range c.bookings.Items() {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%.2f\t%s\n", b.ID, b.HotelID, b.CheckIn, b.CheckOut, b.GuestCount, b.TotalPrice, b.Status)
	}
	return tw.Flush()
}

func (c *cli) stats(ctx context.Context) error {
	if err := c.guard(true); err != nil {
		return err
	}
	s, err := c.client.HotelStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "hotels: %d  avg price: $%.2f  avg rating: %.1f  rooms: %d\n", s.Total, s.AvgPrice, s.AvgRating, s.TotalRooms)
	for _, group := range []struct {
		name    string
		buckets []app.Bucket
	}{
		{"price", s.PriceBands},
		{"region", s.Regions},
		{"rating", s.RatingStars},
	} {
		parts := make([]string, 0, len(group.buckets))
		for _, b := range group.buckets {
			parts = append(parts, fmt.Sprintf("%s=%d", b.Name, b.Value))
		}
		fmt.Fprintf(c.out, "%-7s %s\n", group.name+":", strings.Join(parts, " "))
	}
	return nil
}
