package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/semillitas/semillitas-backend/internal/content"
	"github.com/semillitas/semillitas-backend/internal/db"
	"github.com/semillitas/semillitas-backend/internal/observability"
	"github.com/semillitas/semillitas-backend/internal/platform/envutil"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/platform/openai"
	"github.com/semillitas/semillitas-backend/internal/repos"
)

func main() {
	kind := flag.String("kind", "activities", "content kind (activities|articles)")
	threshold := flag.Int("threshold", content.DefaultActivityThreshold, "minimum activities per cell")
	topUp := flag.Int("proactive-topup", content.DefaultTopUpMargin, "extra activities generated above the threshold")
	language := flag.String("language", "", "restrict to one language (es|en)")
	bandLabel := flag.String("band", "", "restrict to one band label, e.g. 14-24")
	all := flag.Bool("all", false, "process every short cell instead of the top-priority one")
	dryRun := flag.Bool("dry-run", false, "report short cells without generating")
	flag.Parse()

	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	observability.Init()

	if *kind != "activities" && *kind != "articles" {
		log.Fatal("Unsupported kind", "kind", *kind)
	}
	if *language != "" && *language != "es" && *language != "en" {
		log.Fatal("Unsupported language", "language", *language)
	}
	var band *content.AgeBand
	if *bandLabel != "" {
		parsed, ok := content.ParseBandLabel(*bandLabel)
		if !ok {
			log.Fatal("Unknown band label", "band", *bandLabel)
		}
		band = &parsed
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()
	activityRepo := repos.NewActivityRepo(thePG, log)
	articleRepo := repos.NewExploreArticleRepo(thePG, log)
	childRepo := repos.NewChildRepo(thePG, log)

	detector := content.NewShortageDetector(log, activityRepo, articleRepo)
	ctx := context.Background()

	if *dryRun {
		var short []content.ShortageRecord
		if *kind == "articles" {
			short, err = detector.ScanArticles(ctx, nil, *language, band)
		} else {
			short, err = detector.ScanActivities(ctx, nil, *language, band, *threshold, *topUp)
		}
		if err != nil {
			log.Fatal("Shortage scan failed", "error", err)
		}
		for _, rec := range short {
			log.Info("Short cell",
				"band", rec.BandLabel,
				"language", rec.Language,
				"total", rec.Total,
				"missing_total", rec.MissingTotal,
				"missing_research", rec.MissingResearch,
				"diversity_warning", rec.DiversityWarning,
			)
		}
		log.Info("Dry run finished", "short_cells", len(short))
		return
	}

	var generator *content.Generator
	if *kind == "activities" {
		llmCfg, err := openai.ConfigFromEnv()
		if err != nil {
			log.Fatal("OpenAI config error", "error", err)
		}
		llmClient, err := openai.NewClient(log, llmCfg)
		if err != nil {
			log.Fatal("OpenAI client error", "error", err)
		}
		generator = content.NewGenerator(log, llmClient)
	}

	orchestrator := content.NewBackfillOrchestrator(thePG, log, generator, detector, activityRepo, articleRepo, childRepo)

	opts := content.BackfillOptions{
		Language:  *language,
		Band:      band,
		All:       *all,
		Threshold: *threshold,
		Margin:    *topUp,
	}

	var results []content.BackfillResult
	if *kind == "articles" {
		results, err = orchestrator.RefillArticles(ctx, opts)
	} else {
		results, err = orchestrator.RefillActivities(ctx, opts)
	}
	if err != nil {
		log.Fatal("Refill run failed", "error", err)
	}

	for _, res := range results {
		log.Info("Cell result",
			"band", res.Band.Label(),
			"language", res.Language,
			"requested", res.Requested,
			"generated", res.Generated,
			"failed", res.Failed,
			"total_after", res.TotalAfter,
		)
	}
	for _, line := range observability.Current().Summary() {
		log.Info(line)
	}
}
