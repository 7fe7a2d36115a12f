package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewEncodesData(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	ev, err := New(SessionClosed, userID, SessionClosedData{SessionID: sessionID, EndedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.NotEmpty(t, ev.ID)
	require.Equal(t, userID, ev.UserID)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	var back Event
	require.NoError(t, json.Unmarshal(raw, &back))

	var data SessionClosedData
	require.NoError(t, back.Decode(&data))
	require.Equal(t, sessionID, data.SessionID)
}

func TestDecodeWithoutData(t *testing.T) {
	ev, err := New(ThemesApplied, uuid.New(), nil)
	require.NoError(t, err)
	require.Error(t, ev.Decode(&ThemesAppliedData{}))
}

func TestMemoryBusDeliversToSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ctx, func(ev Event) { got <- ev }))

	ev, err := New(GoalTransitioned, uuid.New(), GoalTransitionedData{GoalID: uuid.New(), Status: "in_progress", Version: 1})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, ev))

	select {
	case delivered := <-got:
		require.Equal(t, ev.ID, delivered.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	require.Len(t, bus.Published(GoalTransitioned), 1)
	require.Empty(t, bus.Published(ThemeReconciled))
}

func TestNoopBus(t *testing.T) {
	bus := NewNoopBus()
	require.NoError(t, bus.Publish(context.Background(), Event{Type: SessionClosed}))
	require.NoError(t, bus.Subscribe(context.Background(), func(Event) {}))
	require.NoError(t, bus.Close())
}
