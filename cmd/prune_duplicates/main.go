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
	"github.com/semillitas/semillitas-backend/internal/repos"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report victims without deleting")
	limit := flag.Int("limit", 0, "cap deletions per run (0 = unlimited)")
	deleteShort := flag.Bool("delete-short", false, "also delete articles with truncated bodies")
	flag.Parse()

	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	observability.Init()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()
	activityRepo := repos.NewActivityRepo(thePG, log)
	articleRepo := repos.NewExploreArticleRepo(thePG, log)

	pruner := content.NewPruner(log, activityRepo, articleRepo)
	report, err := pruner.Run(context.Background(), content.PruneOptions{
		DryRun:      *dryRun,
		Limit:       *limit,
		DeleteShort: *deleteShort,
	})
	if err != nil {
		log.Fatal("Prune run failed", "error", err)
	}

	log.Info("Prune report",
		"groups_scanned", report.GroupsScanned,
		"duplicate_groups", report.DuplicateGroups,
		"victims", report.Victims,
		"short_deleted", report.ShortDeleted,
		"deleted", report.Deleted,
		"dry_run", *dryRun,
	)
	for _, line := range observability.Current().Summary() {
		log.Info(line)
	}
}
