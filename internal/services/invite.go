package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/platform/apierr"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/types"
)

const inviteTTL = 7 * 24 * time.Hour

// InvitePreview is the public projection of an invite, safe to show
// before the viewer authenticates. Only live invites produce one; dead
// invites are indistinguishable from missing ones.
type InvitePreview struct {
	Token     string    `json:"token"`
	ChildName string    `json:"child_name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type InviteService interface {
	Create(ctx context.Context, childID uuid.UUID) (*types.CaregiverInvite, error)
	Preview(ctx context.Context, token string) (*InvitePreview, error)
	Claim(ctx context.Context, token string) (*types.Child, error)
}

type inviteService struct {
	db            *gorm.DB
	log           *logger.Logger
	inviteRepo    repos.CaregiverInviteRepo
	caregiverRepo repos.ChildCaregiverRepo
	childRepo     repos.ChildRepo
	childService  ChildService
	now           func() time.Time
}

func NewInviteService(
	db *gorm.DB,
	log *logger.Logger,
	inviteRepo repos.CaregiverInviteRepo,
	caregiverRepo repos.ChildCaregiverRepo,
	childRepo repos.ChildRepo,
	childService ChildService,
) InviteService {
	return &inviteService{
		db:            db,
		log:           log.With("service", "InviteService"),
		inviteRepo:    inviteRepo,
		caregiverRepo: caregiverRepo,
		childRepo:     childRepo,
		childService:  childService,
		now:           time.Now,
	}
}

func newInviteToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (is *inviteService) Create(ctx context.Context, childID uuid.UUID) (*types.CaregiverInvite, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := is.childService.RequireAccess(ctx, childID); err != nil {
		return nil, err
	}
	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}
	invite := &types.CaregiverInvite{
		ID:        uuid.New(),
		Token:     token,
		ChildID:   childID,
		CreatedBy: userID,
		Role:      "caregiver",
		ExpiresAt: is.now().Add(inviteTTL),
	}
	if _, err := is.inviteRepo.Create(ctx, nil, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

func (is *inviteService) Preview(ctx context.Context, token string) (*InvitePreview, error) {
	invite, err := is.inviteRepo.GetByToken(ctx, nil, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invite: %w", err)
	}
	// Claimed and expired invites 404 like unknown tokens so a dead link
	// never leaks the child's name.
	if invite == nil || invite.ClaimedBy != nil || invite.ExpiresAt.Before(is.now()) {
		return nil, apierr.New(http.StatusNotFound, "invite_not_found", fmt.Errorf("invite not found"))
	}
	child, err := is.childRepo.GetByID(ctx, nil, invite.ChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch child: %w", err)
	}
	preview := &InvitePreview{
		Token:     invite.Token,
		Role:      invite.Role,
		ExpiresAt: invite.ExpiresAt,
	}
	if child != nil {
		preview.ChildName = child.Name
	}
	return preview, nil
}

func (is *inviteService) Claim(ctx context.Context, token string) (*types.Child, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	var child *types.Child
	if err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invite, err := is.inviteRepo.GetByToken(ctx, tx, token)
		if err != nil {
			return fmt.Errorf("failed to fetch invite: %w", err)
		}
		if invite == nil || invite.ClaimedBy != nil || invite.ExpiresAt.Before(is.now()) {
			return apierr.New(http.StatusNotFound, "invite_not_found", fmt.Errorf("invite not found"))
		}
		if invite.CreatedBy == userID {
			return apierr.New(http.StatusBadRequest, "self_claim", fmt.Errorf("cannot claim your own invite"))
		}

		c, err := is.childRepo.GetByID(ctx, tx, invite.ChildID)
		if err != nil {
			return fmt.Errorf("failed to fetch child: %w", err)
		}
		if c == nil {
			return apierr.New(http.StatusNotFound, "invite_not_found", fmt.Errorf("child no longer exists"))
		}

		if err := is.inviteRepo.MarkClaimed(ctx, tx, invite.ID, userID, is.now()); err != nil {
			return fmt.Errorf("failed to mark invite claimed: %w", err)
		}
		if err := is.caregiverRepo.Upsert(ctx, tx, &types.ChildCaregiver{
			ID:      uuid.New(),
			ChildID: invite.ChildID,
			UserID:  userID,
			Role:    invite.Role,
		}); err != nil {
			return fmt.Errorf("failed to link caregiver: %w", err)
		}
		child = c
		return nil
	}); err != nil {
		return nil, err
	}
	return child, nil
}
