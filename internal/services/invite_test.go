package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/semillitas/semillitas-backend/internal/platform/apierr"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/types"
)

// Postgres-only column defaults keep AutoMigrate off the table here; the
// invite tables are created by hand with IDs assigned client side.
const inviteTestSchema = `
CREATE TABLE children (
	id TEXT PRIMARY KEY,
	owner_user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	birth_date DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE caregiver_invites (
	id TEXT PRIMARY KEY,
	token TEXT NOT NULL UNIQUE,
	child_id TEXT NOT NULL,
	created_by TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'caregiver',
	expires_at DATETIME NOT NULL,
	claimed_by TEXT,
	claimed_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE child_caregivers (
	id TEXT PRIMARY KEY,
	child_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'caregiver',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX idx_child_caregiver ON child_caregivers (child_id, user_id);
`

func newInviteTestService(t *testing.T, now time.Time) (*inviteService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Exec(inviteTestSchema).Error; err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	log := newExploreTestLogger(t)
	return &inviteService{
		db:            db,
		log:           log.With("service", "InviteService"),
		inviteRepo:    repos.NewCaregiverInviteRepo(db, log),
		caregiverRepo: repos.NewChildCaregiverRepo(db, log),
		childRepo:     repos.NewChildRepo(db, log),
		now:           func() time.Time { return now },
	}, db
}

func seedInvite(t *testing.T, db *gorm.DB, childID, createdBy uuid.UUID, expiresAt time.Time) *types.CaregiverInvite {
	t.Helper()
	invite := &types.CaregiverInvite{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		ChildID:   childID,
		CreatedBy: createdBy,
		Role:      "caregiver",
		ExpiresAt: expiresAt,
	}
	if err := db.Create(invite).Error; err != nil {
		t.Fatalf("failed to seed invite: %v", err)
	}
	return invite
}

func assertAPIStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a %d error, got nil", want)
	}
	apiErr, ok := apierr.From(err)
	if !ok {
		t.Fatalf("expected a status error, got %v", err)
	}
	if apiErr.Status != want {
		t.Fatalf("status = %d, want %d (%v)", apiErr.Status, want, err)
	}
}

func TestInviteClaimLinksCaregiverOnce(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc, db := newInviteTestService(t, now)

	owner := uuid.New()
	caregiver := uuid.New()
	child := &types.Child{ID: uuid.New(), OwnerUserID: owner, Name: "Luna", BirthDate: now.AddDate(-1, 0, 0)}
	if err := db.Create(child).Error; err != nil {
		t.Fatalf("failed to seed child: %v", err)
	}
	invite := seedInvite(t, db, child.ID, owner, now.Add(24*time.Hour))

	got, err := svc.Claim(authedCtx(caregiver), invite.Token)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if got.ID != child.ID {
		t.Errorf("claimed child = %s, want %s", got.ID, child.ID)
	}

	var links int64
	if err := db.Model(&types.ChildCaregiver{}).
		Where("child_id = ? AND user_id = ?", child.ID, caregiver).
		Count(&links).Error; err != nil {
		t.Fatalf("failed to count links: %v", err)
	}
	if links != 1 {
		t.Errorf("caregiver links = %d, want 1", links)
	}

	// A claimed token behaves like a missing one from then on.
	_, err = svc.Claim(authedCtx(uuid.New()), invite.Token)
	assertAPIStatus(t, err, http.StatusNotFound)
	_, err = svc.Preview(authedCtx(uuid.New()), invite.Token)
	assertAPIStatus(t, err, http.StatusNotFound)
}

func TestInviteClaimIsIdempotentForLinkedCaregiver(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc, db := newInviteTestService(t, now)

	owner := uuid.New()
	caregiver := uuid.New()
	child := &types.Child{ID: uuid.New(), OwnerUserID: owner, Name: "Luna", BirthDate: now.AddDate(-1, 0, 0)}
	if err := db.Create(child).Error; err != nil {
		t.Fatalf("failed to seed child: %v", err)
	}
	existing := &types.ChildCaregiver{ID: uuid.New(), ChildID: child.ID, UserID: caregiver, Role: "caregiver"}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("failed to seed link: %v", err)
	}
	invite := seedInvite(t, db, child.ID, owner, now.Add(24*time.Hour))

	if _, err := svc.Claim(authedCtx(caregiver), invite.Token); err != nil {
		t.Fatalf("Claim with pre-existing link: %v", err)
	}

	var links int64
	if err := db.Model(&types.ChildCaregiver{}).
		Where("child_id = ? AND user_id = ?", child.ID, caregiver).
		Count(&links).Error; err != nil {
		t.Fatalf("failed to count links: %v", err)
	}
	if links != 1 {
		t.Errorf("caregiver links = %d, want 1 (upsert must not duplicate)", links)
	}
}

func TestInvitePreviewHidesDeadInvites(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc, db := newInviteTestService(t, now)

	owner := uuid.New()
	child := &types.Child{ID: uuid.New(), OwnerUserID: owner, Name: "Luna", BirthDate: now.AddDate(-1, 0, 0)}
	if err := db.Create(child).Error; err != nil {
		t.Fatalf("failed to seed child: %v", err)
	}

	live := seedInvite(t, db, child.ID, owner, now.Add(time.Hour))
	preview, err := svc.Preview(authedCtx(uuid.New()), live.Token)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.ChildName != "Luna" {
		t.Errorf("child name = %q, want Luna", preview.ChildName)
	}

	expired := seedInvite(t, db, child.ID, owner, now.Add(-time.Hour))
	_, err = svc.Preview(authedCtx(uuid.New()), expired.Token)
	assertAPIStatus(t, err, http.StatusNotFound)

	_, err = svc.Preview(authedCtx(uuid.New()), "no-such-token")
	assertAPIStatus(t, err, http.StatusNotFound)
}

func TestInviteSelfClaimRejected(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc, db := newInviteTestService(t, now)

	owner := uuid.New()
	child := &types.Child{ID: uuid.New(), OwnerUserID: owner, Name: "Luna", BirthDate: now.AddDate(-1, 0, 0)}
	if err := db.Create(child).Error; err != nil {
		t.Fatalf("failed to seed child: %v", err)
	}
	invite := seedInvite(t, db, child.ID, owner, now.Add(time.Hour))

	_, err := svc.Claim(authedCtx(owner), invite.Token)
	assertAPIStatus(t, err, http.StatusBadRequest)
}
