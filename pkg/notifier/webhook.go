package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/planedeck/planedeck/pkg/api"
)

// WebhookClient posts workflow digests to a chat webhook (Slack block
// format, which Mattermost and friends also accept).
type WebhookClient struct {
	WebhookURL string
	Channel    string // Optional: Override default channel

	// HTTPClient may be replaced in tests; nil uses a 10s-timeout default.
	HTTPClient *http.Client
}

// NewWebhookClient initializes the webhook integration.
func NewWebhookClient(webhookURL string, channel string) *WebhookClient {
	return &WebhookClient{
		WebhookURL: webhookURL,
		Channel:    channel,
	}
}

// SendFailureDigest posts a summary of failed workflows. A configured but
// unreachable webhook is an error; an empty WebhookURL is a no-op.
func (c *WebhookClient) SendFailureDigest(failed []api.Workflow) error {
	if c.WebhookURL == "" || len(failed) == 0 {
		return nil
	}
	return c.send(c.constructPayload(failed))
}

// constructPayload builds the message blocks.
func (c *WebhookClient) constructPayload(failed []api.Workflow) map[string]interface{} {
	blocks := []map[string]interface{}{
		{
			"type": "header",
			"text": map[string]interface{}{
				"type": "plain_text",
				"text": fmt.Sprintf("🔴 %d Workflow Failure(s)", len(failed)),
			},
		},
		{
			"type": "context",
			"elements": []map[string]interface{}{
				{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Observed:* %s", time.Now().Format("2006-01-02 15:04")),
				},
			},
		},
		{
			"type": "divider",
		},
	}

	for _, w := range failed {
		detail := w.Error
		if detail == "" {
			detail = "no error detail reported"
		}
		blocks = append(blocks, map[string]interface{}{
			"type": "section",
			"fields": []map[string]interface{}{
				{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Workflow:*\n%s (%s)", w.Name, w.ID),
				},
				{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Tenant:*\n%s", w.TenantID),
				},
				{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Error:*\n%s", detail),
				},
			},
		})
	}

	payload := map[string]interface{}{
		"blocks": blocks,
	}
	if c.Channel != "" {
		payload["channel"] = c.Channel
	}
	return payload
}

func (c *WebhookClient) send(payload map[string]interface{}) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequest("POST", c.WebhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("received non-200 status from webhook: %d", resp.StatusCode)
	}
	return nil
}
