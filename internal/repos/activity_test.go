package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/types"
)

// The production schema relies on uuid_generate_v4() and now() defaults,
// which sqlite cannot evaluate. Tests create equivalent tables by hand and
// assign IDs client side.
const testSchema = `
CREATE TABLE activities (
	id TEXT PRIMARY KEY,
	emoji TEXT,
	title TEXT NOT NULL,
	subtitle TEXT,
	schema_target TEXT,
	domain TEXT,
	materials TEXT,
	duration_minutes INTEGER NOT NULL,
	steps TEXT,
	science_note TEXT,
	age_min_months INTEGER NOT NULL,
	age_max_months INTEGER NOT NULL,
	language TEXT NOT NULL,
	is_featured NUMERIC NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE activity_saves (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	activity_id TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX idx_activity_save ON activity_saves (user_id, activity_id);
CREATE TABLE activity_completions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	activity_id TEXT NOT NULL,
	rating INTEGER,
	note TEXT,
	completed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX idx_activity_completion ON activity_completions (user_id, activity_id);
`

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Exec(testSchema).Error; err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return db, log
}

func seedActivity(t *testing.T, repo ActivityRepo, title, language string, ageMin, ageMax int, createdAt time.Time) *types.Activity {
	t.Helper()
	row, err := repo.Create(context.Background(), nil, &types.Activity{
		ID:              uuid.New(),
		Title:           title,
		Language:        language,
		AgeMinMonths:    ageMin,
		AgeMaxMonths:    ageMax,
		DurationMinutes: 15,
		CreatedAt:       createdAt,
	})
	if err != nil {
		t.Fatalf("failed to seed activity %q: %v", title, err)
	}
	return row
}

func TestActivityRepoListForAge(t *testing.T) {
	db, log := testDB(t)
	repo := NewActivityRepo(db, log)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedActivity(t, repo, "Torres que caen", "es", 14, 24, base)
	seedActivity(t, repo, "Cestas viajeras", "es", 14, 24, base.Add(time.Hour))
	seedActivity(t, repo, "Esconder y descubrir", "es", 5, 8, base)
	seedActivity(t, repo, "Falling towers", "en", 14, 24, base)

	rows, err := repo.ListForAge(ctx, nil, "es", 18)
	if err != nil {
		t.Fatalf("ListForAge: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for es/18mo, got %d", len(rows))
	}
	if rows[0].Title != "Cestas viajeras" {
		t.Errorf("expected newest first, got %q", rows[0].Title)
	}

	rows, err = repo.ListForAge(ctx, nil, "es", 14)
	if err != nil {
		t.Fatalf("ListForAge lower bound: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("band lower bound is inclusive, expected 2 rows, got %d", len(rows))
	}

	rows, err = repo.ListForAge(ctx, nil, "es", 25)
	if err != nil {
		t.Fatalf("ListForAge past band: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("age 25 is outside every seeded band, got %d rows", len(rows))
	}
}

func TestActivityRepoRecentTitlesLimit(t *testing.T) {
	db, log := testDB(t)
	repo := NewActivityRepo(db, log)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"Uno", "Dos", "Tres"} {
		seedActivity(t, repo, title, "es", 14, 24, base.Add(time.Duration(i)*time.Hour))
	}

	titles, err := repo.RecentTitles(ctx, nil, "es", 14, 24, 2)
	if err != nil {
		t.Fatalf("RecentTitles: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("expected limit of 2 titles, got %d", len(titles))
	}
	if titles[0] != "Tres" || titles[1] != "Dos" {
		t.Errorf("expected newest-first [Tres Dos], got %v", titles)
	}
}

func TestActivitySaveRepoUpsertIsIdempotent(t *testing.T) {
	db, log := testDB(t)
	activityRepo := NewActivityRepo(db, log)
	saveRepo := NewActivitySaveRepo(db, log)
	ctx := context.Background()

	activity := seedActivity(t, activityRepo, "Torres que caen", "es", 14, 24, time.Now().UTC())
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		err := saveRepo.Upsert(ctx, nil, &types.ActivitySave{
			ID:         uuid.New(),
			UserID:     userID,
			ActivityID: activity.ID,
		})
		if err != nil {
			t.Fatalf("Upsert attempt %d: %v", i+1, err)
		}
	}

	saves, err := saveRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(saves) != 1 {
		t.Fatalf("expected a single save row after double upsert, got %d", len(saves))
	}

	if err := saveRepo.Delete(ctx, nil, userID, activity.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	saves, err = saveRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("ListByUser after delete: %v", err)
	}
	if len(saves) != 0 {
		t.Errorf("expected no saves after delete, got %d", len(saves))
	}
}

func TestActivityCompletionRepoUpsertRefreshesRating(t *testing.T) {
	db, log := testDB(t)
	activityRepo := NewActivityRepo(db, log)
	completionRepo := NewActivityCompletionRepo(db, log)
	ctx := context.Background()

	activity := seedActivity(t, activityRepo, "Cestas viajeras", "es", 14, 24, time.Now().UTC())
	userID := uuid.New()

	first := 3
	err := completionRepo.Upsert(ctx, nil, &types.ActivityCompletion{
		ID:          uuid.New(),
		UserID:      userID,
		ActivityID:  activity.ID,
		Rating:      &first,
		Note:        "le costó al principio",
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	second := 5
	err = completionRepo.Upsert(ctx, nil, &types.ActivityCompletion{
		ID:          uuid.New(),
		UserID:      userID,
		ActivityID:  activity.ID,
		Rating:      &second,
		Note:        "hoy lo repitió sola",
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	completions, err := completionRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(completions) != 1 {
		t.Fatalf("expected one completion row per (user, activity), got %d", len(completions))
	}
	got := completions[0]
	if got.Rating == nil || *got.Rating != 5 {
		t.Errorf("expected refreshed rating 5, got %v", got.Rating)
	}
	if got.Note != "hoy lo repitió sola" {
		t.Errorf("expected refreshed note, got %q", got.Note)
	}
}

func TestActivityRepoDeleteByIDs(t *testing.T) {
	db, log := testDB(t)
	repo := NewActivityRepo(db, log)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	keep := seedActivity(t, repo, "Uno", "es", 14, 24, base)
	drop1 := seedActivity(t, repo, "Dos", "es", 14, 24, base)
	drop2 := seedActivity(t, repo, "Tres", "es", 14, 24, base)

	if err := repo.DeleteByIDs(ctx, nil, []uuid.UUID{drop1.ID, drop2.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if err := repo.DeleteByIDs(ctx, nil, nil); err != nil {
		t.Fatalf("DeleteByIDs with empty slice: %v", err)
	}

	rows, err := repo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != keep.ID {
		t.Fatalf("expected only the kept row to survive, got %d rows", len(rows))
	}
}
