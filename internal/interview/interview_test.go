package interview

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/retry"
	"github.com/jonathan/career-assistant/internal/types"
)

const twoPairs = "```json\n[{\"question\": \"What is a goroutine?\", \"answer\": \"A lightweight thread.\"}, {\"question\": \"What is a channel?\", \"answer\": \"A typed conduit.\"}]\n```"

type mockGenerator struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
}

func (m *mockGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	i := len(m.prompts) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

func newTestService(gen llm.TextGenerator, workers int) *Service {
	return NewService(gen, prompts.MustLoad(), 300, workers, zap.NewNop())
}

func TestGenerate_Success(t *testing.T) {
	gen := &mockGenerator{responses: []string{twoPairs}}

	pairs, err := newTestService(gen, 1).Generate(context.Background(), Request{
		Role:       "Backend Engineer",
		Experience: "3 years",
		Topic:      "Go concurrency",
		Count:      2,
	})

	require.NoError(t, err)
	assert.Equal(t, []types.InterviewQA{
		{Question: "What is a goroutine?", Answer: "A lightweight thread."},
		{Question: "What is a channel?", Answer: "A typed conduit."},
	}, pairs)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Backend Engineer")
	assert.Contains(t, gen.prompts[0], "3 years")
	assert.Contains(t, gen.prompts[0], "Go concurrency")
}

func TestGenerate_ShortSetRetried(t *testing.T) {
	gen := &mockGenerator{responses: []string{
		`[{"question": "Only one?", "answer": "Yes."}, {"question": "", "answer": "dropped"}]`,
		twoPairs,
	}}

	pairs, err := newTestService(gen, 1).Generate(context.Background(), Request{Role: "r", Topic: "t", Count: 2})

	require.NoError(t, err)
	assert.Len(t, pairs, 2)
	assert.Len(t, gen.prompts, 2)
}

func TestGenerate_Exhausted(t *testing.T) {
	gen := &mockGenerator{responses: []string{"I cannot help with that."}}

	_, err := newTestService(gen, 1).Generate(context.Background(), Request{Role: "r", Topic: "t", Count: 2})

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, retry.FailureContent, exhausted.Kind)
	assert.Equal(t, "I cannot help with that.", exhausted.LastRaw)
	assert.Len(t, gen.prompts, retry.ArrayAttempts)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	gen := &mockGenerator{responses: []string{twoPairs}}

	_, err := newTestService(gen, 1).Generate(context.Background(), Request{Topic: "t"})

	assert.ErrorIs(t, err, types.ErrInvalidRequest)
}

func TestGenerateBatch_KeepsTopicOrder(t *testing.T) {
	gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		topic := "beta"
		if strings.Contains(prompt, "alpha") {
			topic = "alpha"
			time.Sleep(10 * time.Millisecond)
		}
		return `[{"question": "` + topic + ` question", "answer": "answer"}]`, nil
	})

	sets, err := newTestService(gen, 2).GenerateBatch(context.Background(), BatchRequest{
		Role:   "r",
		Topics: []string{"alpha", "beta"},
		Count:  1,
	})

	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "alpha", sets[0].Topic)
	assert.Equal(t, "alpha question", sets[0].Questions[0].Question)
	assert.Equal(t, "beta", sets[1].Topic)
	assert.Equal(t, "beta question", sets[1].Questions[0].Question)
}

func TestGenerateBatch_RespectsWorkerLimit(t *testing.T) {
	var inFlight, peak int32
	gen := llm.GeneratorFunc(func(context.Context, string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return `[{"question": "q", "answer": "a"}]`, nil
	})

	sets, err := newTestService(gen, 2).GenerateBatch(context.Background(), BatchRequest{
		Role:   "r",
		Topics: []string{"a", "b", "c", "d", "e"},
		Count:  1,
	})

	require.NoError(t, err)
	assert.Len(t, sets, 5)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestGenerateBatch_FailureNamesTopic(t *testing.T) {
	gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "broken") {
			return "not json", nil
		}
		return `[{"question": "q", "answer": "a"}]`, nil
	})

	_, err := newTestService(gen, 3).GenerateBatch(context.Background(), BatchRequest{
		Role:   "r",
		Topics: []string{"fine", "broken"},
		Count:  1,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `topic "broken"`)
	var exhausted *retry.ExhaustedError
	assert.ErrorAs(t, err, &exhausted)
}

func TestGenerateBatch_InvalidRequest(t *testing.T) {
	gen := &mockGenerator{responses: []string{twoPairs}}

	_, err := newTestService(gen, 1).GenerateBatch(context.Background(), BatchRequest{Role: "r"})

	assert.ErrorIs(t, err, types.ErrInvalidRequest)
}
