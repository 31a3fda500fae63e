package content

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/semillitas/semillitas-backend/internal/observability"
	"github.com/semillitas/semillitas-backend/internal/platform/logger"
	"github.com/semillitas/semillitas-backend/internal/platform/openai"
	"github.com/semillitas/semillitas-backend/internal/types"
)

const (
	maxGenerateAttempts = 4
	minDurationMinutes  = 8
	maxDurationMinutes  = 60
	maxRecentTitles     = 12
)

// Delay before attempt 2, 3 and 4. Attempt 1 runs immediately.
var attemptDelays = []time.Duration{
	700 * time.Millisecond,
	2 * time.Second,
	5 * time.Second,
}

var activityJSONSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"emoji":            map[string]any{"type": "string"},
		"title":            map[string]any{"type": "string"},
		"subtitle":         map[string]any{"type": "string"},
		"schema_target":    map[string]any{"type": "string"},
		"domain":           map[string]any{"type": "string"},
		"materials":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"duration_minutes": map[string]any{"type": "integer"},
		"steps":            map[string]any{"type": "string"},
		"science_note":     map[string]any{"type": "string"},
		"is_featured":      map[string]any{"type": "boolean"},
	},
	"required": []string{
		"emoji", "title", "subtitle", "schema_target", "domain",
		"materials", "duration_minutes", "steps", "science_note", "is_featured",
	},
	"additionalProperties": false,
}

var articleJSONSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":         map[string]any{"type": "string"},
		"summary":       map[string]any{"type": "string"},
		"body":          map[string]any{"type": "string"},
		"schema_target": map[string]any{"type": "string"},
		"domain":        map[string]any{"type": "string"},
	},
	"required":             []string{"title", "summary", "body", "schema_target", "domain"},
	"additionalProperties": false,
}

// Generator builds cell-specific prompts, calls the LLM, validates the
// returned JSON and rejects near-duplicate titles against the recent
// titles of the same (language, band) cell. A rejected or failed attempt
// is retried up to maxGenerateAttempts times with fixed delays; after
// that the unit is reported failed and the caller moves on.
type Generator struct {
	log   *logger.Logger
	llm   openai.Client
	sleep func(time.Duration)
}

func NewGenerator(log *logger.Logger, llm openai.Client) *Generator {
	return &Generator{
		log:   log.With("service", "ContentGenerator"),
		llm:   llm,
		sleep: time.Sleep,
	}
}

type GenerateActivityInput struct {
	Variant      BandVariant
	Language     string
	BatchLabel   string
	Index        int
	RecentTitles []string
}

type GenerateArticleInput struct {
	Variant      BandVariant
	Language     string
	Type         string // article, research or guide
	BatchLabel   string
	Index        int
	RecentTitles []string
}

func (g *Generator) GenerateActivity(ctx context.Context, in GenerateActivityInput) (*types.Activity, error) {
	recentKeys := recentTitleKeys(in.RecentTitles)
	userPrompt := g.activityUserPrompt(in)

	var lastErr error
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		if attempt > 1 {
			g.sleep(attemptDelays[attempt-2])
		}
		observability.Current().IncGenerationAttempt()

		obj, err := g.llm.GenerateJSON(ctx, activitySystemPrompt(in.Language), userPrompt, "generated_activity", activityJSONSchema)
		if err != nil {
			lastErr = err
			g.log.Warn("Activity generation attempt failed",
				"band", in.Variant.Band.Label(),
				"language", in.Language,
				"attempt", attempt,
				"error", err,
			)
			continue
		}

		title := strings.TrimSpace(stringField(obj, "title"))
		if title == "" {
			lastErr = fmt.Errorf("model returned empty title")
			continue
		}
		if _, dup := recentKeys[CanonicalTitleKey(title)]; dup {
			observability.Current().IncDuplicateReject()
			lastErr = fmt.Errorf("near-duplicate title rejected: %q", title)
			g.log.Info("Near-duplicate title rejected",
				"band", in.Variant.Band.Label(),
				"language", in.Language,
				"attempt", attempt,
				"title", title,
			)
			continue
		}

		activity := &types.Activity{
			ID:              uuid.New(),
			Emoji:           stringField(obj, "emoji"),
			Title:           BatchTitle(title, in.BatchLabel, in.Index),
			Subtitle:        stringField(obj, "subtitle"),
			SchemaTarget:    in.Variant.SchemaTarget,
			Domain:          in.Variant.Domain(in.Language),
			Materials:       datatypes.JSONSlice[string](stringSliceField(obj, "materials")),
			DurationMinutes: clampDuration(intField(obj, "duration_minutes")),
			Steps:           stringField(obj, "steps"),
			ScienceNote:     stringField(obj, "science_note"),
			AgeMinMonths:    in.Variant.Band.MinMonths,
			AgeMaxMonths:    in.Variant.Band.MaxMonths,
			Language:        in.Language,
			IsFeatured:      boolField(obj, "is_featured"),
		}
		return activity, nil
	}

	observability.Current().IncGenerationFailure()
	return nil, fmt.Errorf("activity generation exhausted %d attempts: %w", maxGenerateAttempts, lastErr)
}

func (g *Generator) GenerateArticle(ctx context.Context, in GenerateArticleInput) (*types.ExploreArticle, error) {
	recentKeys := recentTitleKeys(in.RecentTitles)
	userPrompt := g.articleUserPrompt(in)

	articleType := in.Type
	if articleType == "" {
		articleType = types.ArticleTypeArticle
	}

	var lastErr error
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		if attempt > 1 {
			g.sleep(attemptDelays[attempt-2])
		}
		observability.Current().IncGenerationAttempt()

		obj, err := g.llm.GenerateJSON(ctx, articleSystemPrompt(in.Language), userPrompt, "generated_article", articleJSONSchema)
		if err != nil {
			lastErr = err
			g.log.Warn("Article generation attempt failed",
				"band", in.Variant.Band.Label(),
				"language", in.Language,
				"attempt", attempt,
				"error", err,
			)
			continue
		}

		title := strings.TrimSpace(stringField(obj, "title"))
		if title == "" {
			lastErr = fmt.Errorf("model returned empty title")
			continue
		}
		if _, dup := recentKeys[CanonicalTitleKey(title)]; dup {
			observability.Current().IncDuplicateReject()
			lastErr = fmt.Errorf("near-duplicate title rejected: %q", title)
			continue
		}

		body := stringField(obj, "body")
		article := &types.ExploreArticle{
			ID:              uuid.New(),
			Type:            articleType,
			Title:           BatchTitle(title, in.BatchLabel, in.Index),
			Summary:         stringField(obj, "summary"),
			Body:            body,
			SchemaTarget:    in.Variant.SchemaTarget,
			Domain:          in.Variant.Domain(in.Language),
			AgeMinMonths:    in.Variant.Band.MinMonths,
			AgeMaxMonths:    in.Variant.Band.MaxMonths,
			Language:        in.Language,
			ReadTimeMinutes: ReadTimeMinutes(body),
		}
		return article, nil
	}

	observability.Current().IncGenerationFailure()
	return nil, fmt.Errorf("article generation exhausted %d attempts: %w", maxGenerateAttempts, lastErr)
}

func (g *Generator) activityUserPrompt(in GenerateActivityInput) string {
	var b strings.Builder
	band := in.Variant.Band
	if in.Language == "en" {
		fmt.Fprintf(&b, "Create one play activity for a child aged %d to %d months.\n", band.MinMonths, band.MaxMonths)
		fmt.Fprintf(&b, "Domain: %s.\n", in.Variant.Domain(in.Language))
		if in.Variant.SchemaTarget != "none" && in.Variant.SchemaTarget != "" {
			fmt.Fprintf(&b, "The activity must exercise the %q play schema.\n", in.Variant.SchemaTarget)
		}
		fmt.Fprintf(&b, "Focus: %s.\n", in.Variant.Focus(in.Language))
	} else {
		fmt.Fprintf(&b, "Crea una actividad de juego para una niña o niño de %d a %d meses.\n", band.MinMonths, band.MaxMonths)
		fmt.Fprintf(&b, "Dominio: %s.\n", in.Variant.Domain(in.Language))
		if in.Variant.SchemaTarget != "none" && in.Variant.SchemaTarget != "" {
			fmt.Fprintf(&b, "La actividad debe ejercitar el esquema de juego %q.\n", in.Variant.SchemaTarget)
		}
		fmt.Fprintf(&b, "Enfoque: %s.\n", in.Variant.Focus(in.Language))
	}
	writeNoveltyBlock(&b, in.Language, in.RecentTitles)
	return b.String()
}

func (g *Generator) articleUserPrompt(in GenerateArticleInput) string {
	var b strings.Builder
	band := in.Variant.Band
	if in.Language == "en" {
		fmt.Fprintf(&b, "Write one %s-style article for parents of a child aged %d to %d months.\n", in.Type, band.MinMonths, band.MaxMonths)
		fmt.Fprintf(&b, "Domain: %s. Focus: %s.\n", in.Variant.Domain(in.Language), in.Variant.Focus(in.Language))
		if in.Variant.SchemaTarget != "none" && in.Variant.SchemaTarget != "" {
			fmt.Fprintf(&b, "Anchor the article in the %q play schema.\n", in.Variant.SchemaTarget)
		}
	} else {
		fmt.Fprintf(&b, "Escribe un artículo de tipo %s para madres y padres de una niña o niño de %d a %d meses.\n", in.Type, band.MinMonths, band.MaxMonths)
		fmt.Fprintf(&b, "Dominio: %s. Enfoque: %s.\n", in.Variant.Domain(in.Language), in.Variant.Focus(in.Language))
		if in.Variant.SchemaTarget != "none" && in.Variant.SchemaTarget != "" {
			fmt.Fprintf(&b, "Ancla el artículo en el esquema de juego %q.\n", in.Variant.SchemaTarget)
		}
	}
	writeNoveltyBlock(&b, in.Language, in.RecentTitles)
	return b.String()
}

func writeNoveltyBlock(b *strings.Builder, language string, recentTitles []string) {
	if len(recentTitles) == 0 {
		return
	}
	titles := recentTitles
	if len(titles) > maxRecentTitles {
		titles = titles[:maxRecentTitles]
	}
	if language == "en" {
		b.WriteString("Do NOT repeat or lightly rephrase any of these existing titles:\n")
	} else {
		b.WriteString("NO repitas ni parafrasees ninguno de estos títulos existentes:\n")
	}
	for _, t := range titles {
		fmt.Fprintf(b, "- %s\n", t)
	}
}

func recentTitleKeys(titles []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		if k := CanonicalTitleKey(t); k != "" {
			keys[k] = struct{}{}
		}
	}
	return keys
}

func clampDuration(minutes int) int {
	if minutes < minDurationMinutes {
		return minDurationMinutes
	}
	if minutes > maxDurationMinutes {
		return maxDurationMinutes
	}
	return minutes
}

// ReadTimeMinutes derives a display read time from the body word count.
func ReadTimeMinutes(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.Ceil(float64(words) / 180.0))
	if minutes < 5 {
		return 5
	}
	return minutes
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func intField(obj map[string]any, key string) int {
	switch v := obj[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func boolField(obj map[string]any, key string) bool {
	v, _ := obj[key].(bool)
	return v
}

func stringSliceField(obj map[string]any, key string) []string {
	raw, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
