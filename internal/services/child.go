package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/apierr"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/requestdata"
	"github.com/semillitas/semillitas-backend/internal/schemas"
	"github.com/semillitas/semillitas-backend/internal/types"
)

type CreateChildInput struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
}

type CreateObservationInput struct {
	Note    string `json:"note"`
	Schemas []any  `json:"schemas"`
}

type ChildService interface {
	CreateChild(ctx context.Context, input CreateChildInput) (*types.Child, error)
	ListChildren(ctx context.Context) ([]*types.Child, error)
	GetChild(ctx context.Context, childID uuid.UUID) (*types.Child, error)
	CreateObservation(ctx context.Context, childID uuid.UUID, input CreateObservationInput) (*types.Observation, error)
	ListObservations(ctx context.Context, childID uuid.UUID, limit int) ([]*types.Observation, error)

	// RequireAccess resolves the child and verifies the caller owns it or
	// is a linked caregiver. Missing and forbidden both map to 404.
	RequireAccess(ctx context.Context, childID uuid.UUID) (*types.Child, error)
}

type childService struct {
	db              *gorm.DB
	log             *logger.Logger
	childRepo       repos.ChildRepo
	caregiverRepo   repos.ChildCaregiverRepo
	observationRepo repos.ObservationRepo
}

func NewChildService(
	db *gorm.DB,
	log *logger.Logger,
	childRepo repos.ChildRepo,
	caregiverRepo repos.ChildCaregiverRepo,
	observationRepo repos.ObservationRepo,
) ChildService {
	return &childService{
		db:              db,
		log:             log.With("service", "ChildService"),
		childRepo:       childRepo,
		caregiverRepo:   caregiverRepo,
		observationRepo: observationRepo,
	}
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("no authenticated user"))
	}
	return rd.UserID, nil
}

func (cs *childService) CreateChild(ctx context.Context, input CreateChildInput) (*types.Child, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_name", fmt.Errorf("name is required"))
	}
	birthDate, err := time.Parse("2006-01-02", input.BirthDate)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_birth_date", fmt.Errorf("birth_date must be YYYY-MM-DD"))
	}
	if birthDate.After(time.Now()) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_birth_date", fmt.Errorf("birth_date is in the future"))
	}

	child := &types.Child{
		ID:          uuid.New(),
		OwnerUserID: userID,
		Name:        name,
		BirthDate:   birthDate,
	}
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.childRepo.Create(ctx, tx, child); err != nil {
			return fmt.Errorf("failed to create child: %w", err)
		}
		link := &types.ChildCaregiver{
			ID:      uuid.New(),
			ChildID: child.ID,
			UserID:  userID,
			Role:    "owner",
		}
		if err := cs.caregiverRepo.Upsert(ctx, tx, link); err != nil {
			return fmt.Errorf("failed to link owner as caregiver: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return child, nil
}

func (cs *childService) ListChildren(ctx context.Context) ([]*types.Child, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := cs.childRepo.ListByOwner(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned children: %w", err)
	}
	links, err := cs.caregiverRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list caregiver links: %w", err)
	}

	seen := map[uuid.UUID]struct{}{}
	for _, c := range owned {
		seen[c.ID] = struct{}{}
	}
	var linkedIDs []uuid.UUID
	for _, l := range links {
		if _, ok := seen[l.ChildID]; !ok {
			linkedIDs = append(linkedIDs, l.ChildID)
			seen[l.ChildID] = struct{}{}
		}
	}
	linked, err := cs.childRepo.GetByIDs(ctx, nil, linkedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load linked children: %w", err)
	}
	return append(owned, linked...), nil
}

func (cs *childService) GetChild(ctx context.Context, childID uuid.UUID) (*types.Child, error) {
	return cs.RequireAccess(ctx, childID)
}

func (cs *childService) RequireAccess(ctx context.Context, childID uuid.UUID) (*types.Child, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	child, err := cs.childRepo.GetByID(ctx, nil, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch child: %w", err)
	}
	// Not-found and not-owned collapse into one answer so callers cannot
	// probe for existence.
	notFound := apierr.New(http.StatusNotFound, "child_not_found", fmt.Errorf("child not found"))
	if child == nil {
		return nil, notFound
	}
	if child.OwnerUserID == userID {
		return child, nil
	}
	linked, err := cs.caregiverRepo.Exists(ctx, nil, childID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check caregiver link: %w", err)
	}
	if !linked {
		return nil, notFound
	}
	return child, nil
}

func (cs *childService) CreateObservation(ctx context.Context, childID uuid.UUID, input CreateObservationInput) (*types.Observation, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := cs.RequireAccess(ctx, childID); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(input.Note)
	if note == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_note", fmt.Errorf("note is required"))
	}

	obs := &types.Observation{
		ID:      uuid.New(),
		ChildID: childID,
		UserID:  userID,
		Note:    note,
		Schemas: datatypes.JSONSlice[string](schemas.NormalizeList(input.Schemas)),
	}
	if _, err := cs.observationRepo.Create(ctx, nil, obs); err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}
	return obs, nil
}

func (cs *childService) ListObservations(ctx context.Context, childID uuid.UUID, limit int) ([]*types.Observation, error) {
	if _, err := cs.RequireAccess(ctx, childID); err != nil {
		return nil, err
	}
	return cs.observationRepo.ListByChild(ctx, nil, childID, limit)
}
