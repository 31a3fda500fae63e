package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/semillitas/semillitas-backend/internal/clients/redis"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/platform/openai"
	"github.com/semillitas/semillitas-backend/internal/repos"
	"github.com/semillitas/semillitas-backend/internal/types"
)

const dailyCacheTTL = 26 * time.Hour

// Content dates key on the family's local calendar, not UTC.
var bogotaTZ = func() *time.Location {
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		return time.FixedZone("COT", -5*3600)
	}
	return loc
}()

// DailyCard is the generated daily content payload.
type DailyCard struct {
	Date       string   `json:"date"`
	Insight    string   `json:"insight"`
	TryToday   string   `json:"try_today"`
	WatchFor   []string `json:"watch_for"`
	SchemaHint string   `json:"schema_hint"`
}

var dailyCardJSONSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"insight":     map[string]any{"type": "string"},
		"try_today":   map[string]any{"type": "string"},
		"watch_for":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"schema_hint": map[string]any{"type": "string"},
	},
	"required":             []string{"insight", "try_today", "watch_for", "schema_hint"},
	"additionalProperties": false,
}

type DailyContentService interface {
	// GetForChild returns the child's card for today, generating and
	// caching it on first request of the day.
	GetForChild(ctx context.Context, childID uuid.UUID) (*DailyCard, error)
}

type dailyContentService struct {
	db           *gorm.DB
	log          *logger.Logger
	repo         repos.DailyContentRepo
	obsRepo      repos.ObservationRepo
	userRepo     repos.UserRepo
	childService ChildService
	llm          openai.Client
	cache        redis.Cache
	now          func() time.Time
}

func NewDailyContentService(
	db *gorm.DB,
	log *logger.Logger,
	repo repos.DailyContentRepo,
	obsRepo repos.ObservationRepo,
	userRepo repos.UserRepo,
	childService ChildService,
	llm openai.Client,
	cache redis.Cache,
) DailyContentService {
	return &dailyContentService{
		db:           db,
		log:          log.With("service", "DailyContentService"),
		repo:         repo,
		obsRepo:      obsRepo,
		userRepo:     userRepo,
		childService: childService,
		llm:          llm,
		cache:        cache,
		now:          time.Now,
	}
}

// LocalDateKey renders the America/Bogota calendar date used to key the
// per-child daily cache.
func LocalDateKey(t time.Time) string {
	return t.In(bogotaTZ).Format("2006-01-02")
}

func dailyCacheKey(childID uuid.UUID, localDate string) string {
	return "daily_content:" + childID.String() + ":" + localDate
}

func (ds *dailyContentService) GetForChild(ctx context.Context, childID uuid.UUID) (*DailyCard, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	child, err := ds.childService.RequireAccess(ctx, childID)
	if err != nil {
		return nil, err
	}
	user, err := ds.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	language := "es"
	if user != nil && user.PreferredLanguage == "en" {
		language = "en"
	}

	localDate := LocalDateKey(ds.now())

	// Redis first, then the durable row, then the LLM.
	if raw, hit, err := ds.cache.Get(ctx, dailyCacheKey(childID, localDate)); err == nil && hit {
		var card DailyCard
		if err := json.Unmarshal(raw, &card); err == nil {
			return &card, nil
		}
	}

	if row, err := ds.repo.GetByChildDate(ctx, nil, childID, localDate); err != nil {
		return nil, fmt.Errorf("failed to fetch daily content: %w", err)
	} else if row != nil {
		var card DailyCard
		if err := json.Unmarshal(row.Body, &card); err != nil {
			return nil, fmt.Errorf("failed to decode stored daily content: %w", err)
		}
		ds.cacheCard(ctx, childID, localDate, &card)
		return &card, nil
	}

	card, err := ds.generate(ctx, child, language, localDate)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("failed to encode daily content: %w", err)
	}
	if _, err := ds.repo.Create(ctx, nil, &types.DailyContent{
		ID:        uuid.New(),
		ChildID:   childID,
		LocalDate: localDate,
		Language:  language,
		Body:      datatypes.JSON(body),
	}); err != nil {
		// Another request may have raced the insert; serve the card anyway.
		ds.log.Warn("Failed to persist daily content", "child_id", childID, "error", err)
	}
	ds.cacheCard(ctx, childID, localDate, card)
	return card, nil
}

func (ds *dailyContentService) cacheCard(ctx context.Context, childID uuid.UUID, localDate string, card *DailyCard) {
	raw, err := json.Marshal(card)
	if err != nil {
		return
	}
	if err := ds.cache.Set(ctx, dailyCacheKey(childID, localDate), raw, dailyCacheTTL); err != nil {
		ds.log.Warn("Failed to cache daily content", "child_id", childID, "error", err)
	}
}

func (ds *dailyContentService) generate(ctx context.Context, child *types.Child, language, localDate string) (*DailyCard, error) {
	observations, err := ds.obsRepo.ListByChild(ctx, nil, child.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}

	ageMonths := child.AgeMonths(ds.now())
	var system, user string
	if language == "en" {
		system = "You are an early-childhood development coach. Respond only with valid JSON matching the requested schema. Keep every field short, warm and practical."
		user = fmt.Sprintf("Write today's developmental insight card for a %d-month-old child.\n", ageMonths)
		if len(observations) > 0 {
			user += "Recent caregiver observations:\n"
			for _, o := range observations {
				user += "- " + o.Note + "\n"
			}
		}
	} else {
		system = "Eres una coach de desarrollo infantil temprano. Respondes únicamente con JSON válido que cumple el esquema solicitado. Cada campo debe ser corto, cálido y práctico."
		user = fmt.Sprintf("Escribe la tarjeta de hoy para una niña o niño de %d meses.\n", ageMonths)
		if len(observations) > 0 {
			user += "Observaciones recientes de la familia:\n"
			for _, o := range observations {
				user += "- " + o.Note + "\n"
			}
		}
	}

	obj, err := ds.llm.GenerateJSON(ctx, system, user, "daily_card", dailyCardJSONSchema)
	if err != nil {
		return nil, fmt.Errorf("daily content generation failed: %w", err)
	}

	card := &DailyCard{Date: localDate}
	if v, ok := obj["insight"].(string); ok {
		card.Insight = v
	}
	if v, ok := obj["try_today"].(string); ok {
		card.TryToday = v
	}
	if v, ok := obj["schema_hint"].(string); ok {
		card.SchemaHint = v
	}
	if raw, ok := obj["watch_for"].([]any); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok {
				card.WatchFor = append(card.WatchFor, s)
			}
		}
	}
	return card, nil
}
