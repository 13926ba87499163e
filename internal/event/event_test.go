package event

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event
	bus.Subscribe(GamePlayed, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	evt := New(GamePlayed, domain.GamePlayedPayload{EmployeeID: "emp-1"})
	require.NoError(t, bus.Publish(context.Background(), evt))
	require.NoError(t, bus.Publish(context.Background(), New(GameAwarded, nil)))

	require.Len(t, got, 1)
	assert.Equal(t, evt.ID, got[0].ID)
	assert.Equal(t, EventSchemaVersion, got[0].Version)
}

func TestMemoryBus_AggregatesHandlerErrors(t *testing.T) {
	bus := NewMemoryBus()
	calls := 0
	errFirst := errors.New("first")
	bus.Subscribe(ConfigUpdated, func(context.Context, Event) error {
		calls++
		return errFirst
	})
	bus.Subscribe(ConfigUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), New(ConfigUpdated, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encountered 1 errors")
	assert.ErrorIs(t, err, errFirst)
	assert.Equal(t, 2, calls)
}

func TestDecodePayload(t *testing.T) {
	p := domain.PoolExhaustedPayload{EmployeeID: "e", PrizeType: "jackpot"}

	direct, err := DecodePayload[domain.PoolExhaustedPayload](p)
	require.NoError(t, err)
	assert.Equal(t, p, direct)

	viaMap, err := DecodePayload[domain.PoolExhaustedPayload](map[string]interface{}{
		"employee_id": "e",
		"prize_type":  "jackpot",
	})
	require.NoError(t, err)
	assert.Equal(t, "jackpot", viaMap.PrizeType)
}

func TestDecodePayload_RawJSON(t *testing.T) {
	raw := json.RawMessage(`{"employee_id":"e","prize_type":"bonus"}`)
	got, err := DecodePayload[domain.PoolExhaustedPayload](raw)
	require.NoError(t, err)
	assert.Equal(t, "bonus", got.PrizeType)

	_, err = DecodePayload[domain.PoolExhaustedPayload]([]byte(`{"employee_id":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPayloadDecode)

	var nilPtr *domain.PoolExhaustedPayload
	_, err = DecodePayload[domain.PoolExhaustedPayload](nilPtr)
	require.Error(t, err)
}

func TestReadDeadLetters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dead.jsonl")
	w, err := NewDeadLetterWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(New(GamePlayed, nil), 3, errors.New("down")))
	require.NoError(t, w.Write(New(ConfigUpdated, nil), 5, nil))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	entries, err := ReadDeadLetters(f)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, GamePlayed, entries[0].Event.Type)
	assert.Equal(t, "down", entries[0].LastError)
	assert.Empty(t, entries[1].LastError)
}

func TestReadDeadLetters_Rejects(t *testing.T) {
	_, err := ReadDeadLetters(strings.NewReader("{not json}\n"))
	assert.ErrorContains(t, err, "line 1")

	_, err = ReadDeadLetters(strings.NewReader(`{"schema_version":"9.0"}` + "\n"))
	assert.ErrorContains(t, err, `schema "9.0"`)
}
