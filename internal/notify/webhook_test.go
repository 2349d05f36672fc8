package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/config"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *WebhookNotifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewWebhookNotifier(config.NotifierConfig{
		WebhookBaseURL: server.URL,
		TimeoutSeconds: 5,
	}, zap.NewNop())
}

func TestSendReminder(t *testing.T) {
	var received sendReminderRequest
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"message_ref": "msg-42"})
	})

	ref, err := notifier.SendReminder(context.Background(), "chan-1", "role-support", "ping", 2)
	require.NoError(t, err)
	assert.Equal(t, "msg-42", ref)
	assert.Equal(t, "chan-1", received.ChannelRef)
	assert.Equal(t, "role-support", received.MentionRef)
	assert.Equal(t, "ping", received.Text)
	assert.Equal(t, 2, received.EscalationCount)
}

func TestSendReminder_EmptyMessageRef(t *testing.T) {
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := notifier.SendReminder(context.Background(), "chan-1", "role-support", "ping", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty message ref")
}

func TestSendReminder_GatewayError(t *testing.T) {
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel archived", http.StatusUnprocessableEntity)
	})

	_, err := notifier.SendReminder(context.Background(), "chan-1", "role-support", "ping", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "channel archived")
}

func TestSuppressControls(t *testing.T) {
	var path string
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, notifier.SuppressControls(context.Background(), "msg-42"))
	assert.Equal(t, "/messages/msg-42/suppress", path)
}

func TestResolveRoleMembers(t *testing.T) {
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/roles/role-support/members", r.URL.Path)
		json.NewEncoder(w).Encode(map[string][]string{"members": {"staff-1", "staff-2"}})
	})

	members, err := notifier.ResolveRoleMembers(context.Background(), "role-support")
	require.NoError(t, err)
	assert.Equal(t, []string{"staff-1", "staff-2"}, members)
}
