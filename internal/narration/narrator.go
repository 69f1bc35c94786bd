// Package narration turns an enriched Pokemon and the caller's classification
// into a short fortune using a text generation service.
package narration

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/smile-fortune/internal/llm"
	"github.com/jonathan/smile-fortune/internal/logging"
	"github.com/jonathan/smile-fortune/internal/metrics"
	"github.com/jonathan/smile-fortune/internal/prompts"
	"github.com/jonathan/smile-fortune/internal/types"
)

// Placeholder is returned to the user when generation produced no text.
const Placeholder = "申し訳ありません。占い結果を生成できませんでした。"

// Narrator composes fortunes with a single completion call per request.
type Narrator struct {
	client   llm.Client
	provider string
	system   string
	user     string
}

// NewNarrator creates a Narrator. provider labels the duration metric. It
// panics if the embedded fortune templates are missing.
func NewNarrator(client llm.Client, provider string) *Narrator {
	if provider == "" {
		provider = string(llm.ProviderOpenAI)
	}
	return &Narrator{
		client:   client,
		provider: provider,
		system:   prompts.MustGet(prompts.FortuneFile, prompts.KeySystem),
		user:     prompts.MustGet(prompts.FortuneFile, prompts.KeyUser),
	}
}

// Compose returns the trimmed fortune text. An empty completion yields ("", nil);
// substituting Placeholder is the caller's decision.
func (n *Narrator) Compose(ctx context.Context, entity *types.EntityAttributes, smileScore float64, bandDescription, userExpression string) (string, error) {
	user := prompts.Format(n.user, promptData(entity, smileScore, bandDescription, userExpression))

	start := time.Now()
	text, err := n.client.Complete(ctx, llm.CompletionRequest{
		System: n.system,
		Prompt: user,
	})
	elapsed := time.Since(start)
	metrics.NarrationDuration.WithLabelValues(n.provider).Observe(elapsed.Seconds())

	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("provider", n.provider).Msg("fortune generation failed")
		return "", &GenerationError{Cause: err}
	}

	text = strings.TrimSpace(text)
	logging.Ctx(ctx).Debug().
		Str("provider", n.provider).
		Dur("elapsed", elapsed).
		Int("chars", len([]rune(text))).
		Msg("fortune generated")
	return text, nil
}

func promptData(e *types.EntityAttributes, smileScore float64, bandDescription, userExpression string) map[string]string {
	if userExpression == "" {
		userExpression = types.DefaultExpression
	}
	return map[string]string{
		"Name":       e.Name,
		"FlavorText": e.FlavorText,
		"Expression": userExpression,
		"SmileScore": strconv.FormatFloat(smileScore, 'f', -1, 64),
		"Band":       bandDescription,
		"HP":         strconv.Itoa(e.Stats.HP),
		"Attack":     strconv.Itoa(e.Stats.Attack),
		"Defense":    strconv.Itoa(e.Stats.Defense),
		"Speed":      strconv.Itoa(e.Stats.Speed),
	}
}
