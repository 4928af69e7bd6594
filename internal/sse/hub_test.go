package sse

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	mu      sync.Mutex
	buf     strings.Builder
	fail    bool
	flushes int
}

func (f *fakeStream) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errors.New("client gone")
	}
	return f.buf.Write(p)
}

func (f *fakeStream) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
}

func (f *fakeStream) content() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.String()
}

func (f *fakeStream) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func TestRegisterSendsConnectedEvent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	stream := &fakeStream{}
	conn, err := hub.Register("term-1", stream)
	require.NoError(t, err)

	assert.Contains(t, conn.ID, "term-1-")
	assert.Contains(t, stream.content(), `"type":"connected"`)
	assert.Contains(t, stream.content(), conn.ID)
	assert.Equal(t, 1, hub.Count("term-1"))
}

func TestRegisterFailingStream(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	stream := &fakeStream{fail: true}
	_, err := hub.Register("term-1", stream)
	require.Error(t, err)
	assert.Zero(t, hub.Count("term-1"))
}

func TestPushFansOutToTerminalConnectionsOnly(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	a := &fakeStream{}
	b := &fakeStream{}
	other := &fakeStream{}
	_, err := hub.Register("term-1", a)
	require.NoError(t, err)
	_, err = hub.Register("term-1", b)
	require.NoError(t, err)
	_, err = hub.Register("term-2", other)
	require.NoError(t, err)

	delivered := hub.Push("term-1", "こんにちは")

	assert.Equal(t, 2, delivered)
	assert.Contains(t, a.content(), "こんにちは")
	assert.Contains(t, b.content(), "こんにちは")
	assert.NotContains(t, other.content(), "こんにちは")
}

func TestPushFailedWriteUnregistersOnlyThatConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	healthy := &fakeStream{}
	broken := &fakeStream{}
	_, err := hub.Register("term-1", healthy)
	require.NoError(t, err)
	_, err = hub.Register("term-1", broken)
	require.NoError(t, err)
	broken.setFail(true)

	delivered := hub.Push("term-1", "msg")

	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, hub.Count("term-1"))

	// The surviving connection keeps receiving
	assert.Equal(t, 1, hub.Push("term-1", "again"))
	assert.Contains(t, healthy.content(), "again")
}

func TestPushNoConnections(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	assert.Zero(t, hub.Push("term-1", "msg"))
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn, err := hub.Register("term-1", &fakeStream{})
	require.NoError(t, err)

	hub.Unregister(conn.ID)
	hub.Unregister(conn.ID)
	hub.Unregister("no-such-connection")

	assert.Zero(t, hub.Count("term-1"))
}

func TestCloseDropsAllConnections(t *testing.T) {
	hub := NewHub()

	_, err := hub.Register("term-1", &fakeStream{})
	require.NoError(t, err)
	_, err = hub.Register("term-2", &fakeStream{})
	require.NoError(t, err)

	hub.Close()

	assert.Zero(t, hub.Count("term-1"))
	assert.Zero(t, hub.Count("term-2"))
}

func TestPushMessageEventShape(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	stream := &fakeStream{}
	_, err := hub.Register("term-1", stream)
	require.NoError(t, err)

	hub.Push("term-1", "forced hello")

	content := stream.content()
	assert.Contains(t, content, `"type":"message"`)
	assert.Contains(t, content, `"message":"forced hello"`)
	assert.True(t, strings.HasSuffix(content, "\n\n"))
}
