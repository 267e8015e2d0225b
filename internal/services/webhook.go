package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue  = 3447003 // #3498DB - file uploaded
	ColorGreen = 65280   // #00FF00 - collaborator joined

	WebhookUsername = "VRDAW"

	webhookTimeout = 10 * time.Second
)

// WebhookNotifier forwards project events to Discord and/or Slack incoming
// webhooks. Publish sends in the background; Wait blocks until every
// pending send has finished.
type WebhookNotifier struct {
	discordURL string
	slackURL   string
	client     *http.Client
	logger     logging.Logger
	wg         sync.WaitGroup
}

func NewWebhookNotifier(discordURL, slackURL string, client *http.Client, logger logging.Logger) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: webhookTimeout}
	}
	return &WebhookNotifier{discordURL: discordURL, slackURL: slackURL, client: client, logger: logger}
}

func (n *WebhookNotifier) Publish(projectID uint, eventType, message string) {
	if eventType == realtime.EventConnected {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()

		if err := n.Notify(ctx, projectID, eventType, message); err != nil {
			n.logger.Warn(ctx, "webhook delivery failed",
				"project_id", projectID, "event", eventType, "error", err)
		}
	}()
}

func (n *WebhookNotifier) Wait() {
	n.wg.Wait()
}

// Notify delivers one event to every configured webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, projectID uint, eventType, message string) error {
	now := time.Now().UTC()

	if n.discordURL != "" {
		if err := n.post(ctx, n.discordURL, discordPayload(projectID, eventType, message, now)); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.slackURL != "" {
		if err := n.post(ctx, n.slackURL, slackPayload(projectID, eventType, message, now)); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func eventTitle(eventType string) (string, int, string) {
	switch eventType {
	case realtime.EventFileUploaded:
		return "File uploaded", ColorBlue, "#3498DB"
	case realtime.EventCollaboratorInvited:
		return "Collaborator invited", ColorGreen, "good"
	default:
		return eventType, ColorBlue, "#3498DB"
	}
}

func discordPayload(projectID uint, eventType, message string, at time.Time) DiscordWebhookRequest {
	title, color, _ := eventTitle(eventType)

	return DiscordWebhookRequest{
		Username: WebhookUsername,
		Embeds: []DiscordEmbed{
			{
				Title:       "**" + title + "**",
				Description: message,
				Color:       color,
				Fields: []DiscordWebhookField{
					{Name: "Project", Value: fmt.Sprintf("#%d", projectID), Inline: true},
					{Name: "Event", Value: eventType, Inline: true},
				},
				Footer:    &DiscordFooter{Text: "VRDAW"},
				Timestamp: at.Format(time.RFC3339),
			},
		},
	}
}

func slackPayload(projectID uint, eventType, message string, at time.Time) SlackWebhookRequest {
	title, _, color := eventTitle(eventType)

	return SlackWebhookRequest{
		Username:  WebhookUsername,
		IconEmoji: ":musical_note:",
		Text:      "*" + title + "*",
		Attachments: []SlackAttachment{
			{
				Color: color,
				Title: title,
				Text:  message,
				Fields: []SlackField{
					{Title: "Project", Value: fmt.Sprintf("#%d", projectID), Short: true},
					{Title: "Event", Value: eventType, Short: true},
				},
				Footer:    "VRDAW",
				Timestamp: at.Unix(),
			},
		},
	}
}

func (n *WebhookNotifier) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
