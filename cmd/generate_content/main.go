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
	"github.com/semillitas/semillitas-backend/internal/types"
)

func main() {
	kind := flag.String("kind", "activities", "content kind (activities|articles)")
	targetCount := flag.Int("target-count", 4, "units to generate per run")
	batchLabel := flag.String("batch-label", "", "batch label appended to every title (default B<pid>)")
	ageMin := flag.Int("age-min", 14, "band lower bound in months")
	ageMax := flag.Int("age-max", 24, "band upper bound in months")
	lang := flag.String("lang", "es", "content language (es|en)")
	flag.Parse()

	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	observability.Init()

	band, ok := content.BandFor(*ageMin)
	if !ok || band.MinMonths != *ageMin || band.MaxMonths != *ageMax {
		log.Fatal("Not a catalog band", "age_min", *ageMin, "age_max", *ageMax)
	}
	if *lang != "es" && *lang != "en" {
		log.Fatal("Unsupported language", "lang", *lang)
	}
	if *kind != "activities" && *kind != "articles" {
		log.Fatal("Unsupported kind", "kind", *kind)
	}
	label := *batchLabel
	if label == "" {
		label = fmt.Sprintf("B%d", os.Getpid())
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()
	activityRepo := repos.NewActivityRepo(thePG, log)
	articleRepo := repos.NewExploreArticleRepo(thePG, log)

	llmCfg, err := openai.ConfigFromEnv()
	if err != nil {
		log.Fatal("OpenAI config error", "error", err)
	}
	llmClient, err := openai.NewClient(log, llmCfg)
	if err != nil {
		log.Fatal("OpenAI client error", "error", err)
	}
	generator := content.NewGenerator(log, llmClient)

	ctx := context.Background()
	variants := content.Variants(band)
	generated, failed := 0, 0

	for i := 0; i < *targetCount; i++ {
		variant := variants[i%len(variants)]
		if *kind == "articles" {
			recent, err := articleRepo.ListByCell(ctx, nil, *lang, band.MinMonths, band.MaxMonths)
			if err != nil {
				log.Fatal("Failed to load existing articles", "error", err)
			}
			titles := make([]string, 0, len(recent))
			for _, a := range recent {
				titles = append(titles, a.Title)
			}
			article, err := generator.GenerateArticle(ctx, content.GenerateArticleInput{
				Variant:      variant,
				Language:     *lang,
				Type:         types.ArticleTypeArticle,
				BatchLabel:   label,
				Index:        i + 1,
				RecentTitles: titles,
			})
			if err != nil {
				failed++
				log.Warn("Article unit failed", "unit", i+1, "error", err)
				continue
			}
			if _, err := articleRepo.Create(ctx, nil, article); err != nil {
				failed++
				log.Error("Failed to persist article", "error", err)
				continue
			}
			generated++
			continue
		}

		recent, err := activityRepo.RecentTitles(ctx, nil, *lang, band.MinMonths, band.MaxMonths, 12)
		if err != nil {
			log.Fatal("Failed to load recent titles", "error", err)
		}
		activity, err := generator.GenerateActivity(ctx, content.GenerateActivityInput{
			Variant:      variant,
			Language:     *lang,
			BatchLabel:   label,
			Index:        i + 1,
			RecentTitles: recent,
		})
		if err != nil {
			failed++
			log.Warn("Activity unit failed", "unit", i+1, "error", err)
			continue
		}
		if _, err := activityRepo.Create(ctx, nil, activity); err != nil {
			failed++
			log.Error("Failed to persist activity", "error", err)
			continue
		}
		generated++
	}

	log.Info("Generation run finished",
		"band", band.Label(),
		"lang", *lang,
		"requested", *targetCount,
		"generated", generated,
		"failed", failed,
	)
	for _, line := range observability.Current().Summary() {
		log.Info(line)
	}
}
