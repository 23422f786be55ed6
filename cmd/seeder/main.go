package main

import (
	"context"
	"flag"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/auth"
	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage"
)

type importFunc func(ctx context.Context, rec map[string]any) (int64, error)

// importAll runs fn over recs with at most workers in flight and returns the
// number of failures.
func importAll(ctx context.Context, kind string, recs []map[string]any, workers int, fn importFunc) int64 {
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed int64

	for i, rec := range recs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			break
		}
		wg.Add(1)
		go func(i int, rec map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			id, err := fn(ctx, rec)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				log.Warn().Str("kind", kind).Int("index", i).Err(err).Msg("import failed")
				return
			}
			log.Debug().Str("kind", kind).Int64("id", id).Msg("import ok")
		}(i, rec)
	}
	wg.Wait()
	return failed
}

// importPhased imports records with explicit ids before the rest, so a
// generated id cannot be overwritten by a record that names it.
func importPhased(ctx context.Context, kind string, recs []map[string]any, workers int, fn importFunc) int64 {
	withID, withoutID := app.SplitByID(recs)
	failed := importAll(ctx, kind, withID, workers, fn)
	return failed + importAll(ctx, kind, withoutID, workers, fn)
}

func main() {
	if failed := run(); failed > 0 {
		os.Exit(1)
	}
}

func run() int64 {
	ctx := context.Background()
	cfg := shared.Load()

	file := flag.String("file", cfg.SeedFile, "json-server style db.json to import")
	workers := flag.Int("workers", cfg.SeedWorkers, "concurrent imports")
	flag.Parse()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if *workers < 1 {
		*workers = 1
	}
	log.Info().Str("file", *file).Str("store", cfg.StoreDriver).Int("workers", *workers).Msg("seeder starting")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file failed")
	}
	ds, err := app.LoadDataset(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("load seed file failed")
	}

	store, closeStore, err := storage.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store failed")
	}
	defer func() { _ = closeStore() }()

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	seed := app.NewSeedService(store, auth.NewBcryptHasher(0), cache)

	// bookings validate their user and hotel, so those go first
	failed := importPhased(ctx, "user", ds.Users, *workers, seed.ImportUser)
	failed += importPhased(ctx, "hotel", ds.Hotels, *workers, seed.ImportHotel)
	failed += importPhased(ctx, "booking", ds.Bookings, *workers, seed.ImportBooking)

	log.Info().
		Int("users", len(ds.Users)).
		Int("hotels", len(ds.Hotels)).
		Int("bookings", len(ds.Bookings)).
		Int64("failed", failed).
		Msg("seeding completed")
	return failed
}
