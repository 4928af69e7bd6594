package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRoomMessage(t *testing.T) {
	var gotPath, gotToken, gotBody, gotUnread string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-ChatWorkToken")
		require.NoError(t, r.ParseForm())
		gotBody = r.PostFormValue("body")
		gotUnread = r.PostFormValue("self_unread")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewChatworkClient(srv.URL, "token-123")
	err := client.SendRoomMessage(context.Background(), "42", "呼び出し通知")

	require.NoError(t, err)
	assert.Equal(t, "/rooms/42/messages", gotPath)
	assert.Equal(t, "token-123", gotToken)
	assert.Equal(t, "呼び出し通知", gotBody)
	assert.Equal(t, "1", gotUnread)
}

func TestSendRoomMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":["Invalid API token"]}`))
	}))
	defer srv.Close()

	client := NewChatworkClient(srv.URL, "bad-token")
	err := client.SendRoomMessage(context.Background(), "42", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
