//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_booking/internal/domain"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// startMySQL runs an isolated MySQL and returns a migrated connection.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotels",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotels?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_RoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Hotels: explicit id (seed path) and auto id.
	seeded, err := repo.CreateHotel(ctx, domain.Hotel{
		ID: 7, Name: "Alpine Lodge", Price: 120, Location: "Swiss Alps",
		Rating: 4.5, Amenities: []string{"WiFi", "Spa"}, AvailableRooms: 3,
	})
	if err != nil {
		t.Fatalf("CreateHotel seeded: %v", err)
	}
	if seeded.ID != 7 || len(seeded.Amenities) != 2 || seeded.Price != 120 {
		t.Fatalf("unexpected hotel: %+v", seeded)
	}
	auto, err := repo.CreateHotel(ctx, domain.Hotel{Name: "Beach Inn", Price: 80, Location: "Bali"})
	if err != nil {
		t.Fatalf("CreateHotel auto: %v", err)
	}
	if auto.ID <= 7 {
		t.Fatalf("auto id = %d, want > 7", auto.ID)
	}
	if auto.Amenities == nil {
		t.Fatalf("amenities should decode to empty list")
	}

	seeded.Price = 150
	upd, err := repo.UpdateHotel(ctx, seeded)
	if err != nil || upd.Price != 150 {
		t.Fatalf("UpdateHotel: %+v %v", upd, err)
	}
	// no-op update must not look like a miss
	if _, err := repo.UpdateHotel(ctx, upd); err != nil {
		t.Fatalf("no-op UpdateHotel: %v", err)
	}
	if _, err := repo.UpdateHotel(ctx, domain.Hotel{ID: 999, Name: "ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateHotel missing: %v", err)
	}

	// Users: duplicate email is a conflict.
	now := time.Now().UTC().Truncate(time.Second)
	u, err := repo.CreateUser(ctx, domain.User{Email: "ana@example.com", Name: "Ana", Role: domain.RoleUser, PasswordHash: "h", CreatedAt: &now})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := repo.CreateUser(ctx, domain.User{Email: "ana@example.com", Name: "Dup", Role: domain.RoleUser}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email: %v", err)
	}
	email := "ana@example.com"
	found, err := repo.ListUsers(ctx, domain.UserQuery{Email: &email})
	if err != nil || len(found) != 1 || found[0].ID != u.ID || found[0].PasswordHash != "h" {
		t.Fatalf("ListUsers by email: %+v %v", found, err)
	}

	// Bookings: DATE columns round-trip as calendar days.
	in, _ := domain.ParseDate("2024-06-01")
	out, _ := domain.ParseDate("2024-06-04")
	b, err := repo.CreateBooking(ctx, domain.Booking{
		UserID: u.ID, HotelID: seeded.ID, CheckIn: in, CheckOut: out, TotalPrice: 450,
		GuestCount: 2, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPending,
		CreatedAt:    in,
		GuestDetails: &domain.GuestDetails{Name: "Ana", Email: "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.CheckIn.String() != "2024-06-01" || b.CheckOut.String() != "2024-06-04" {
		t.Fatalf("dates = %s..%s", b.CheckIn, b.CheckOut)
	}
	if b.GuestDetails == nil || b.GuestDetails.Name != "Ana" {
		t.Fatalf("guest details lost: %+v", b.GuestDetails)
	}

	b.Status = domain.BookingCancelled
	if b, err = repo.UpdateBooking(ctx, b); err != nil || b.Status != domain.BookingCancelled {
		t.Fatalf("UpdateBooking: %+v %v", b, err)
	}
	uid := u.ID
	list, err := repo.ListBookings(ctx, domain.BookingQuery{UserID: &uid})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListBookings: %+v %v", list, err)
	}

	if err := repo.DeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if _, err := repo.GetBooking(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetBooking after delete: %v", err)
	}
	if err := repo.DeleteHotel(ctx, 12345); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("DeleteHotel missing: %v", err)
	}
}
