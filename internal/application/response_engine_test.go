package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func overlappingKeywordTable() ReplyTable {
	return ReplyTable{
		Keywords: []KeywordRule{
			{Keyword: "come", Replies: []string{"short-1", "short-2"}},
			{Keyword: "come stai", Replies: []string{"long-1", "long-2", "long-3"}},
		},
		Short: []string{"tiny"},
		Long:  []string{"lengthy"},
	}
}

func TestResponseEnginePrimaryExtractsContinuation(t *testing.T) {
	t.Parallel()

	generator := mocks.NewMockGenerator(t)
	generator.EXPECT().Generate(mockAnyContext(), mock.MatchedBy(func(req ports.GenerationRequest) bool {
		return strings.Contains(req.Prompt, "You are Luna") &&
			strings.Contains(req.Prompt, "User: how was your day?") &&
			strings.HasSuffix(req.Prompt, "Luna:")
	})).Return("You are Luna...\nUser: how was your day?\nLuna:   Pretty relaxing, thanks for asking  ", nil).Once()

	engine := NewResponseEngine(generator, seededRandom(1), discardLogger())
	reply, tier := engine.Generate(context.Background(), "how was your day?", "Luna")

	assert.Equal(t, TierPrimary, tier)
	assert.Equal(t, "Pretty relaxing, thanks for asking 😊", reply)
}

func TestResponseEnginePrimaryKeepsExistingMarker(t *testing.T) {
	t.Parallel()

	generator := mocks.NewMockGenerator(t)
	generator.EXPECT().Generate(mockAnyContext(), mock.Anything).Return("Luna: Sure thing ✨ see you", nil).Once()

	engine := NewResponseEngine(generator, seededRandom(1), discardLogger())
	reply, tier := engine.Generate(context.Background(), "see you", "Luna")

	assert.Equal(t, TierPrimary, tier)
	assert.Equal(t, "Sure thing ✨ see you", reply)
}

func TestResponseEngineFallsBackToLongestKeyword(t *testing.T) {
	t.Parallel()

	for seed := uint64(0); seed < 50; seed++ {
		generator := mocks.NewMockGenerator(t)
		generator.EXPECT().Generate(mockAnyContext(), mock.Anything).Return("", errors.New("503 service unavailable")).Once()

		engine := NewResponseEngine(generator, seededRandom(seed), discardLogger(), WithReplyTable(overlappingKeywordTable()))
		reply, tier := engine.Generate(context.Background(), "come stai", "Luna")

		require.Equal(t, TierKeyword, tier)
		require.Contains(t, []string{"long-1", "long-2", "long-3"}, reply, "seed %d", seed)
	}
}

func TestResponseEngineKeywordTieUsesTableOrder(t *testing.T) {
	t.Parallel()

	table := ReplyTable{Keywords: []KeywordRule{
		{Keyword: "ciao", Replies: []string{"first"}},
		{Keyword: "bene", Replies: []string{"second"}},
	}}
	engine := NewResponseEngine(nil, seededRandom(1), discardLogger(), WithReplyTable(table))

	reply, tier := engine.Generate(context.Background(), "bene, ciao", "Luna")
	assert.Equal(t, TierKeyword, tier)
	assert.Equal(t, "first", reply)
}

func TestResponseEngineUnusableContinuationFallsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "too short", raw: "Luna: ok"},
		{name: "empty", raw: ""},
		{name: "too long", raw: "Luna: " + strings.Repeat("a", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			generator := mocks.NewMockGenerator(t)
			generator.EXPECT().Generate(mockAnyContext(), mock.Anything).Return(tt.raw, nil).Once()

			engine := NewResponseEngine(generator, seededRandom(2), discardLogger(), WithReplyTable(overlappingKeywordTable()))
			reply, tier := engine.Generate(context.Background(), "come va?", "Luna")

			assert.Equal(t, TierKeyword, tier)
			assert.Contains(t, []string{"short-1", "short-2"}, reply)
		})
	}
}

func TestResponseEngineTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	generator := mocks.NewMockGenerator(t)
	generator.EXPECT().Generate(mockAnyContext(), mock.Anything).RunAndReturn(func(ctx context.Context, _ ports.GenerationRequest) (string, error) {
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		return "Luna: far too late to matter", nil
	}).Once()

	engine := NewResponseEngine(generator, seededRandom(3), discardLogger(),
		WithReplyTable(overlappingKeywordTable()),
		WithGeneratorTimeout(10*time.Millisecond),
	)

	started := time.Now()
	reply, tier := engine.Generate(context.Background(), "hello there, nice evening", "Luna")

	assert.Less(t, time.Since(started), time.Second)
	assert.Equal(t, TierLength, tier)
	assert.Equal(t, "lengthy", reply)

	// Let the abandoned generator call finish before mock expectations are asserted.
	time.Sleep(50 * time.Millisecond)
}

func TestResponseEngineLengthTierNeverEmpty(t *testing.T) {
	t.Parallel()

	engine := NewResponseEngine(nil, seededRandom(4), discardLogger())
	for _, input := range []string{"", " ", "?", "hm", "0123456789 and more"} {
		reply, tier := engine.Generate(context.Background(), input, "Luna")
		assert.Equal(t, TierLength, tier, "input %q", input)
		assert.NotEmpty(t, strings.TrimSpace(reply), "input %q", input)
	}
}

func TestResponseEngineLengthBuckets(t *testing.T) {
	t.Parallel()

	engine := NewResponseEngine(nil, seededRandom(5), discardLogger(), WithReplyTable(overlappingKeywordTable()))

	short, _ := engine.Generate(context.Background(), "123456789", "Luna")
	long, _ := engine.Generate(context.Background(), "1234567890", "Luna")

	assert.Equal(t, "tiny", short)
	assert.Equal(t, "lengthy", long)
}

func TestResponseEngineSubstitutesPersonaName(t *testing.T) {
	t.Parallel()

	table := ReplyTable{Keywords: []KeywordRule{{Keyword: "nome", Replies: []string{"I'm {persona}!"}}}}
	engine := NewResponseEngine(nil, seededRandom(6), discardLogger(), WithReplyTable(table))

	reply, tier := engine.Generate(context.Background(), "Qual è il tuo NOME?", "Aurora")
	assert.Equal(t, TierKeyword, tier)
	assert.Equal(t, "I'm Aurora!", reply)
}

func TestExtractContinuationUsesUserLabelWithoutPersonaLabel(t *testing.T) {
	t.Parallel()

	got, ok := extractContinuation("prompt echo\nUser: tell me a story", "Luna")
	require.True(t, ok)
	assert.Equal(t, "tell me a story", got)
}
