package sink

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kradscan/warden/pkg/handle"
	"github.com/kradscan/warden/pkg/report"
)

func TestNewWebhookSinkEmptyURLIsNil(t *testing.T) {
	assert.Nil(t, NewWebhookSink(""))
}

func TestNewWebhookSinkPopulatesDefaults(t *testing.T) {
	s := NewWebhookSink("https://discord.example/webhook")
	require.NotNil(t, s)
	assert.Equal(t, "warden", s.Username)
	assert.Equal(t, "webhook", s.Name())
}

func TestSummarizeClean(t *testing.T) {
	assert.Equal(t, "No suspicious handles or overlays detected.", summarize(&report.Report{}))
}

func TestSummarizeSuspicious(t *testing.T) {
	withHandles := &report.Report{
		Handles: []*handle.Context{{}, {}},
	}
	out := summarize(withHandles)
	assert.Contains(t, out, "2 suspicious handle(s)")
}

func TestSanitizeMarkdownPassesThroughValidMarkdown(t *testing.T) {
	out := sanitizeMarkdown("**bold** text")
	assert.Equal(t, "**bold** text", out)
}

func TestValidatePayloadAcceptsWellFormedBody(t *testing.T) {
	payload := webhookPayload{
		Username: "warden",
		Embeds: []webhookEmbed{{
			Title:       "Scan clean",
			Description: "nothing found",
			Color:       colorGreen,
		}},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.NoError(t, validatePayload(body))
}

func TestValidatePayloadRejectsMissingRequiredFields(t *testing.T) {
	body := []byte(`{"username": "warden"}`)
	assert.Error(t, validatePayload(body))
}

func TestValidatePayloadRejectsEmbedMissingColor(t *testing.T) {
	body := []byte(`{"username":"warden","embeds":[{"title":"x","description":"y"}]}`)
	assert.Error(t, validatePayload(body))
}
