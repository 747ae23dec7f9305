// The collector backfills the directory: it runs places text searches
// for a list of priority cities, feeds every result through the capture
// pipeline, and reports the top outreach targets by targeting score.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"smartdivorce_backend/internal/directory/domain"
	dirrepo "smartdivorce_backend/internal/directory/repository"
	dirservice "smartdivorce_backend/internal/directory/service"
	"smartdivorce_backend/internal/directory/sponsorship"
	"smartdivorce_backend/internal/email"
	"smartdivorce_backend/internal/events"
	"smartdivorce_backend/internal/places"
	"smartdivorce_backend/platform/config"
	"smartdivorce_backend/platform/db"
	"smartdivorce_backend/platform/logger"
	platformredis "smartdivorce_backend/platform/redis"

	"golang.org/x/sync/errgroup"
)

// city is one collection target. The coordinates anchor the captured
// records' search origin.
type city struct {
	name string
	lat  float64
	lng  float64
}

// priorityCities are the markets worked first, largest divorce-filing
// volume on top.
var priorityCities = []city{
	{"Las Vegas, NV", 36.1699, -115.1398},
	{"Los Angeles, CA", 34.0522, -118.2437},
	{"Houston, TX", 29.7604, -95.3698},
	{"Phoenix, AZ", 33.4484, -112.0740},
	{"Chicago, IL", 41.8781, -87.6298},
	{"New York, NY", 40.7128, -74.0060},
	{"Miami, FL", 25.7617, -80.1918},
	{"Dallas, TX", 32.7767, -96.7970},
	{"Atlanta, GA", 33.7490, -84.3880},
	{"Denver, CO", 39.7392, -104.9903},
	{"Seattle, WA", 47.6062, -122.3321},
	{"Philadelphia, PA", 39.9526, -75.1652},
	{"San Antonio, TX", 29.4241, -98.4936},
	{"Orlando, FL", 28.5384, -81.3789},
	{"Charlotte, NC", 35.2271, -80.8431},
}

func main() {
	var (
		concurrency = flag.Int("concurrency", 3, "cities searched in parallel")
		topLimit    = flag.Int("top", 25, "targets listed in the outreach report")
		cityFilter  = flag.String("cities", "", "comma-separated city filter (substring match)")
		dryRun      = flag.Bool("dry-run", false, "capture into memory only; skip the database")
		enrich      = flag.Bool("enrich", false, "fetch place details for top targets missing contact data")
		sendDigest  = flag.Bool("email-digest", false, "email the outreach report to the admin address")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting collector", "env", cfg.Env, "dryRun", *dryRun)

	if !cfg.IsPlacesEnabled() {
		log.Error("PLACES_API_KEY not configured")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openStore(ctx, cfg, *dryRun)
	if err != nil {
		log.Error("failed to open datastore", "error", err)
		panic("failed to open datastore: " + err.Error())
	}
	defer cleanup()

	sponsorConfigs, err := sponsorship.LoadConfigs(cfg.SponsorConfigPath)
	if err != nil {
		log.Error("failed to load sponsor config", "error", err, "path", cfg.SponsorConfigPath)
		panic("failed to load sponsor config: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	matcher := sponsorship.NewMatcher(sponsorConfigs, log)
	svc := dirservice.New(store, matcher, dirservice.NoopScheduler{}, eventBus, log)

	redisClient, err := platformredis.New(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable; places cache disabled", "error", err.Error())
	}
	cache := places.NewCache(redisClient, cfg.GetPlacesCacheTTL(), log)
	client := places.NewClient(cfg, cache, log)

	targets := selectCities(*cityFilter)
	if len(targets) == 0 {
		log.Error("no cities match the filter", "filter", *cityFilter)
		os.Exit(1)
	}

	captured, created := collect(ctx, log, client, svc, targets, *concurrency)
	log.Info("collection complete", "cities", len(targets), "captured", captured, "created", created)

	if *enrich {
		enrichTargets(ctx, log, client, svc, *topLimit)
	}

	report, err := outreachReport(ctx, svc, *topLimit)
	if err != nil {
		log.Error("failed to build outreach report", "error", err)
		panic("failed to build outreach report: " + err.Error())
	}
	fmt.Println(report)

	if *sendDigest {
		if !cfg.GetEmailEnabled() {
			log.Warn("email disabled; digest not sent")
			return
		}
		sender := email.NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)
		if err := sender.SendOutreachDigest(ctx, cfg.GetAdminEmail(), report); err != nil {
			log.EmailError("outreach digest", cfg.GetAdminEmail(), err)
			return
		}
		log.Info("outreach digest sent", "to", cfg.GetAdminEmail())
	}
}

func openStore(ctx context.Context, cfg *config.Config, dryRun bool) (dirrepo.Store, func(), error) {
	if dryRun {
		return dirrepo.NewMemoryStore(), func() {}, nil
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return dirrepo.New(pool), pool.Close, nil
}

func selectCities(filter string) []city {
	if strings.TrimSpace(filter) == "" {
		return priorityCities
	}

	var selected []city
	for _, part := range strings.Split(filter, ",") {
		needle := strings.ToLower(strings.TrimSpace(part))
		if needle == "" {
			continue
		}
		for _, c := range priorityCities {
			if strings.Contains(strings.ToLower(c.name), needle) {
				selected = append(selected, c)
			}
		}
	}
	return selected
}

// collect fans out over cities with bounded concurrency. Capture failures
// are logged per record and never abort the run.
func collect(ctx context.Context, log *logger.Logger, client *places.Client, svc *dirservice.Service, targets []city, concurrency int) (captured, created int) {
	if concurrency < 1 {
		concurrency = 1
	}

	type cityResult struct {
		captured int
		created  int
	}
	results := make(chan cityResult, len(targets))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, target := range targets {
		target := target
		group.Go(func() error {
			records, err := client.Search(groupCtx, "divorce lawyer in "+target.name)
			if err != nil {
				log.Warn("city search failed", "city", target.name, "error", err.Error())
				return nil
			}

			var res cityResult
			origin := domain.SearchOrigin{Lat: target.lat, Lng: target.lng}
			for _, record := range records {
				outcome, err := svc.Capture(groupCtx, record, origin)
				if err != nil {
					log.Warn("capture rejected", "city", target.name, "placeId", record.PlaceID, "error", err.Error())
					continue
				}
				if !outcome.Stored {
					continue
				}
				res.captured++
				if outcome.Created {
					res.created++
				}
			}
			log.Info("city collected", "city", target.name, "results", len(records), "captured", res.captured)
			results <- res
			return nil
		})
	}

	_ = group.Wait()
	close(results)

	for res := range results {
		captured += res.captured
		created += res.created
	}
	return captured, created
}

// enrichTargets looks up place details for the best outreach targets that
// still miss both phone and website. Details are fetched one place at a
// time; they cost far more quota than search.
func enrichTargets(ctx context.Context, log *logger.Logger, client *places.Client, svc *dirservice.Service, limit int) {
	targets, err := svc.TopTargets(ctx, limit)
	if err != nil {
		log.Warn("enrichment skipped", "error", err.Error())
		return
	}

	for _, lawyer := range targets {
		if lawyer.Phone != nil && lawyer.Website != nil {
			continue
		}

		details, err := client.Details(ctx, lawyer.PlaceID)
		if err != nil {
			log.Warn("detail lookup failed", "placeId", lawyer.PlaceID, "error", err.Error())
			continue
		}
		if details.Phone == nil && details.Website == nil {
			continue
		}

		update := dirrepo.DetailUpdate{Phone: details.Phone, Website: details.Website}
		if _, err := svc.RefreshDetails(ctx, lawyer.PlaceID, update); err != nil {
			log.Warn("detail refresh failed", "placeId", lawyer.PlaceID, "error", err.Error())
		}
	}
}

func outreachReport(ctx context.Context, svc *dirservice.Service, limit int) (string, error) {
	targets, err := svc.TopTargets(ctx, limit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Outreach targets (%s)\n", time.Now().Format("2006-01-02"))
	for i, lawyer := range targets {
		fmt.Fprintf(&b, "%2d. [%3d] %s", i+1, lawyer.TargetingScore, lawyer.Name)
		if lawyer.Address != "" {
			fmt.Fprintf(&b, " | %s", lawyer.Address)
		}
		if lawyer.Phone != nil {
			fmt.Fprintf(&b, " | %s", *lawyer.Phone)
		}
		if lawyer.Website == nil {
			b.WriteString(" | no website")
		}
		fmt.Fprintf(&b, " | seen %d times\n", lawyer.SearchCount)
	}
	if len(targets) == 0 {
		b.WriteString("no captured lawyers yet\n")
	}
	return b.String(), nil
}
