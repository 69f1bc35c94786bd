package narration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smile-fortune/internal/llm"
	"github.com/jonathan/smile-fortune/internal/types"
)

type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	requests []llm.CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.response, f.err
}

func (f *fakeLLM) Close() error { return nil }

func pikachu() *types.EntityAttributes {
	return &types.EntityAttributes{
		ID:         25,
		Name:       "ピカチュウ",
		FlavorText: "ほっぺたの でんきぶくろに でんきを ためる。",
		Stats:      types.CoreStats{HP: 35, Attack: 55, Defense: 40, Speed: 90},
	}
}

func TestCompose_BuildsPromptAndTrims(t *testing.T) {
	fake := &fakeLLM{response: "  ピカチュウみたいにビリビリいかなあかんで!  \n"}
	n := NewNarrator(fake, "openai")

	text, err := n.Compose(context.Background(), pikachu(), 0.95, "陽気で人なつっこい性格のポケモン", "happy")
	require.NoError(t, err)
	assert.Equal(t, "ピカチュウみたいにビリビリいかなあかんで!", text)

	require.Len(t, fake.requests, 1, "exactly one completion call")
	req := fake.requests[0]
	assert.Equal(t, "あなたは優しい占い師です。ポケモンの特徴を活かした占い結果を生成してください。", req.System)
	for _, want := range []string{
		"ポケモン: ピカチュウ\n",
		"ポケモンの説明: ほっぺたの でんきぶくろに でんきを ためる。\n",
		"ユーザーの表情: happy\n",
		"笑顔スコア: 0.95\n",
		"性格カテゴリ: 陽気で人なつっこい性格のポケモン\n",
		"HP: 35\n",
		"攻撃: 55\n",
		"防御: 40\n",
		"素早さ: 90\n",
		"関西弁",
	} {
		assert.Contains(t, req.Prompt, want)
	}
	assert.NotContains(t, req.Prompt, "{{.")
}

func TestCompose_DefaultsExpression(t *testing.T) {
	fake := &fakeLLM{response: "ok"}
	n := NewNarrator(fake, "")

	_, err := n.Compose(context.Background(), pikachu(), 0, "desc", "")
	require.NoError(t, err)
	require.Len(t, fake.requests, 1)
	assert.Contains(t, fake.requests[0].Prompt, "ユーザーの表情: neutral\n")
	assert.Contains(t, fake.requests[0].Prompt, "笑顔スコア: 0\n")
}

func TestCompose_EmptyCompletionIsNotAnError(t *testing.T) {
	for _, resp := range []string{"", "   \n\t"} {
		fake := &fakeLLM{response: resp}
		n := NewNarrator(fake, "openai")

		text, err := n.Compose(context.Background(), pikachu(), 0.5, "desc", "neutral")
		require.NoError(t, err)
		assert.Equal(t, "", text)
	}
}

func TestCompose_CallFailure(t *testing.T) {
	cause := errors.New("401 unauthorized")
	fake := &fakeLLM{err: cause}
	n := NewNarrator(fake, "openai")

	text, err := n.Compose(context.Background(), pikachu(), 0.5, "desc", "neutral")
	assert.Equal(t, "", text)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fortune generation failed")
	assert.Len(t, fake.requests, 1)
}

func TestCompose_KeepsModelTextVerbatim(t *testing.T) {
	for _, resp := range []string{
		"「今日はええ日やで」",
		"\"ほな、がんばりや\"",
		"```\nビリビリいこか\n```",
	} {
		fake := &fakeLLM{response: "\n " + resp + " \n"}
		n := NewNarrator(fake, "openai")

		text, err := n.Compose(context.Background(), pikachu(), 0.5, "desc", "neutral")
		require.NoError(t, err)
		assert.Equal(t, resp, text)
	}
}

func TestNewNarrator_LoadsTemplates(t *testing.T) {
	n := NewNarrator(&fakeLLM{}, "")

	assert.NotEmpty(t, n.system)
	assert.Contains(t, n.user, "{{.Name}}")
	assert.Equal(t, string(llm.ProviderOpenAI), n.provider)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "申し訳ありません。占い結果を生成できませんでした。", Placeholder)
}
