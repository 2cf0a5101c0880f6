package application

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionRegistry_CreateAndGet(t *testing.T) {
	reg := NewSessionRegistry(time.Hour, discardLogger())

	id, ws, err := reg.Create()
	require.NoError(t, err)
	assert.Len(t, id, 36)

	got, err := reg.Get(id)
	require.NoError(t, err)
	assert.Same(t, ws, got)

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	reg.Close(id)
	_, err = reg.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRegistry_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	reg := NewSessionRegistry(30*time.Minute, discardLogger())
	reg.now = func() time.Time { return now }

	idle, _, err := reg.Create()
	require.NoError(t, err)
	active, _, err := reg.Create()
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = reg.Get(active)
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())

	_, err = reg.Get(idle)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = reg.Get(active)
	assert.NoError(t, err)

	// Expired sessions are also rejected before a sweep runs.
	now = now.Add(time.Hour)
	_, err = reg.Get(active)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRegistry_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	reg := NewSessionRegistry(0, discardLogger())
	reg.now = func() time.Time { return now }

	id, _, err := reg.Create()
	require.NoError(t, err)

	now = now.Add(1000 * time.Hour)
	assert.Zero(t, reg.Sweep())
	_, err = reg.Get(id)
	assert.NoError(t, err)
}

func TestSessionRegistry_StartStopsOnCancel(t *testing.T) {
	reg := NewSessionRegistry(time.Minute, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.Start(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSessionRegistry_StartLogsThroughRegistryLogger(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	reg := NewSessionRegistry(time.Minute, slog.New(slog.NewTextHandler(&buf, nil)))
	reg.now = func() time.Time { return now }

	_, _, err := reg.Create()
	require.NoError(t, err)
	now = now.Add(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Start(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return reg.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}

	out := buf.String()
	assert.Contains(t, out, "expired editing sessions")
	assert.Contains(t, out, "count=1")
	assert.Contains(t, out, "session sweeper stopped")
}
