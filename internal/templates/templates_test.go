package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/retry"
	"github.com/jonathan/career-assistant/internal/types"
)

type mockGenerator struct {
	responses []string
	prompts   []string
}

func (m *mockGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	i := len(m.prompts) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

func newTestService(gen *mockGenerator) *Service {
	domains := config.NewDomainRegistry([]string{"linkedin.com", "github.com"})
	return NewService(gen, prompts.MustLoad(), domains, 500, zap.NewNop())
}

var followUp = Request{Purpose: "follow up after interview", Recipient: "Hiring manager"}

func TestGenerate_FiltersUntrustedLinks(t *testing.T) {
	gen := &mockGenerator{responses: []string{"```json\n" + `{
		"subject": " Thank you ",
		"body": "Thanks for your time. My work: https://github.com/me. Also see http://evil.example/x for more.",
		"links": ["https://www.linkedin.com/in/me", "https://tracker.example.net/c", "https://github.com/me"]
	}` + "\n```"}}

	email, err := newTestService(gen).Generate(context.Background(), followUp)

	require.NoError(t, err)
	assert.Equal(t, "Thank you", email.Subject)
	assert.Equal(t, []string{"https://www.linkedin.com/in/me", "https://github.com/me"}, email.Links)
	assert.Contains(t, email.Body, "https://github.com/me.")
	assert.NotContains(t, email.Body, "evil.example")
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "linkedin.com, github.com")
	assert.Contains(t, gen.prompts[0], "Tone: professional")
}

func TestGenerate_DroppedLinkKeepsPunctuation(t *testing.T) {
	gen := &mockGenerator{responses: []string{`{
		"subject": "Hello",
		"body": "Details are at https://evil.example/x. Portfolio: https://github.com/me!"
	}`}}

	email, err := newTestService(gen).Generate(context.Background(), followUp)

	require.NoError(t, err)
	assert.Equal(t, "Details are at . Portfolio: https://github.com/me!", email.Body)
	assert.Equal(t, []string{"https://github.com/me"}, email.Links)
}

func TestGenerate_NoLinks(t *testing.T) {
	gen := &mockGenerator{responses: []string{`{"subject": "Hello", "body": "Short note."}`}}

	email, err := newTestService(gen).Generate(context.Background(), followUp)

	require.NoError(t, err)
	assert.Equal(t, []string{}, email.Links)
	assert.Equal(t, "Short note.", email.Body)
}

func TestGenerate_MissingBodyRetried(t *testing.T) {
	gen := &mockGenerator{responses: []string{
		`{"subject": "Hello", "body": ""}`,
		`{"subject": "Hello", "body": "Now with a body."}`,
	}}

	email, err := newTestService(gen).Generate(context.Background(), followUp)

	require.NoError(t, err)
	assert.Equal(t, "Now with a body.", email.Body)
	assert.Len(t, gen.prompts, 2)
	assert.Equal(t, gen.prompts[0], gen.prompts[1])
}

func TestGenerate_Exhausted(t *testing.T) {
	gen := &mockGenerator{responses: []string{"Dear hiring manager, ..."}}

	_, err := newTestService(gen).Generate(context.Background(), followUp)

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.True(t, exhausted.InvalidContent())
	assert.Len(t, gen.prompts, retry.SingleObjectAttempts)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	gen := &mockGenerator{responses: []string{"{}"}}

	_, err := newTestService(gen).Generate(context.Background(), Request{Purpose: "x"})

	assert.ErrorIs(t, err, types.ErrInvalidRequest)
	assert.Empty(t, gen.prompts)
}
