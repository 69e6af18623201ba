package events

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.events = append(p.events, evt)
	return p.err
}

func TestNew(t *testing.T) {
	t.Run("Encodes the payload", func(t *testing.T) {
		evt, err := New(RoundFinished, "s1", RoundFinishedPayload{
			Status: game.StatusWon,
			Winner: game.PlayerX,
			Line:   []int{0, 1, 2},
			Score:  game.Score{X: 1},
			Mode:   game.ModeMultiplayer,
		})
		require.NoError(t, err)

		assert.Equal(t, RoundFinished, evt.Type)
		assert.Equal(t, "s1", evt.SessionID)
		assert.JSONEq(t,
			`{"status":"won","winner":"X","line":[0,1,2],"score":{"x":1,"o":0},"mode":"multiplayer"}`,
			string(evt.Payload))
	})

	t.Run("Nil payload stays empty", func(t *testing.T) {
		evt, err := New(SessionDeleted, "s1", nil)
		require.NoError(t, err)
		assert.Nil(t, evt.Payload)

		data, err := json.Marshal(evt)
		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"session_deleted","session_id":"s1"}`, string(data))
	})

	t.Run("Unencodable payload fails", func(t *testing.T) {
		_, err := New(StateChanged, "s1", make(chan int))
		assert.Error(t, err)
	})
}

func TestMultiPublisher(t *testing.T) {
	errDown := errors.New("down")
	failing := &recordingPublisher{err: errDown}
	healthy := &recordingPublisher{}
	m := NewMultiPublisher(failing, healthy)

	err := m.Publish(context.Background(), Event{Type: StateChanged, SessionID: "s1"})

	require.ErrorIs(t, err, errDown)
	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
