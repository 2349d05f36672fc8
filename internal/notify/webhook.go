package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/config"
)

// WebhookNotifier relays reminders to the chat gateway over HTTP.
type WebhookNotifier struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewWebhookNotifier builds a notifier pointed at the gateway base URL.
func NewWebhookNotifier(cfg config.NotifierConfig, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		baseURL: strings.TrimRight(cfg.WebhookBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

type sendReminderRequest struct {
	ChannelRef      string `json:"channel_ref"`
	MentionRef      string `json:"mention_ref"`
	Text            string `json:"text"`
	EscalationCount int    `json:"escalation_count,omitempty"`
}

type sendReminderResponse struct {
	MessageRef string `json:"message_ref"`
}

type roleMembersResponse struct {
	Members []string `json:"members"`
}

// SendReminder posts the reminder and returns the gateway's message
// reference.
func (n *WebhookNotifier) SendReminder(ctx context.Context, channelRef, mentionRef, text string, escalationCount int) (string, error) {
	payload := sendReminderRequest{
		ChannelRef:      channelRef,
		MentionRef:      mentionRef,
		Text:            text,
		EscalationCount: escalationCount,
	}

	var result sendReminderResponse
	if err := n.post(ctx, "/messages", payload, &result); err != nil {
		return "", err
	}
	if result.MessageRef == "" {
		return "", fmt.Errorf("gateway returned empty message ref")
	}
	return result.MessageRef, nil
}

// SuppressControls asks the gateway to strip the action controls off an
// earlier reminder.
func (n *WebhookNotifier) SuppressControls(ctx context.Context, messageRef string) error {
	path := "/messages/" + url.PathEscape(messageRef) + "/suppress"
	return n.post(ctx, path, struct{}{}, nil)
}

// ResolveRoleMembers expands a role reference through the gateway.
func (n *WebhookNotifier) ResolveRoleMembers(ctx context.Context, roleRef string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/roles/"+url.PathEscape(roleRef)+"/members", nil)
	if err != nil {
		return nil, err
	}

	var result roleMembersResponse
	if err := n.do(req, &result); err != nil {
		return nil, err
	}
	return result.Members, nil
}

func (n *WebhookNotifier) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return n.do(req, out)
}

func (n *WebhookNotifier) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	n.logger.Debug("gateway request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
