package codec

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/kash-scorekeeper/internal/protocol"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		GameID: "g1",
		Loser:  "Bob",
		Scores: map[string]int{"Ann": 4, "Bob": 22, "Cid": 9},
		Rounds: 7,
	})

	data, err := Encode(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")
	assert.Contains(t, string(data), `"type":"game_over"`)

	decoded, err := Decode(data)
	require.NoError(t, err)
	defer PutMessage(decoded)
	assert.Equal(t, protocol.MsgGameOver, decoded.Type)

	var payload protocol.GameOverPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.Equal(t, "Bob", payload.Loser)
	assert.Equal(t, 22, payload.Scores["Bob"])
	assert.Equal(t, 7, payload.Rounds)
}

func TestNewMessage_NilPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(protocol.MsgPing, nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Payload)

	data, err := Encode(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ping"}`, string(data))
}

func TestNewMessage_Unencodable(t *testing.T) {
	t.Parallel()

	_, err := NewMessage(protocol.MsgGameState, make(chan int))
	require.Error(t, err)
	assert.Panics(t, func() {
		MustNewMessage(protocol.MsgGameState, func() {})
	})
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(1002, "slow down")
	assert.Equal(t, protocol.MsgError, msg.Type)

	var p protocol.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	assert.Equal(t, 1002, p.Code)
	assert.Equal(t, "slow down", p.Message)
}

func TestMessagePool_Reset(t *testing.T) {
	t.Parallel()

	msg := getMessage()
	msg.Type = protocol.MsgPing
	msg.Payload = []byte(`{}`)
	PutMessage(msg)

	// 再取出时字段已清空
	msg2 := getMessage()
	assert.Empty(t, msg2.Type)
	assert.Nil(t, msg2.Payload)

	assert.NotPanics(t, func() { PutMessage(nil) })
}

func TestDecode_DoesNotLeakPooledPayload(t *testing.T) {
	t.Parallel()

	first, err := Decode([]byte(`{"type":"game_reset","payload":{"game_id":"g1"}}`))
	require.NoError(t, err)
	PutMessage(first)

	second, err := Decode([]byte(`{"type":"ping"}`))
	require.NoError(t, err)
	defer PutMessage(second)
	assert.Equal(t, protocol.MsgPing, second.Type)
	assert.Nil(t, second.Payload)
}

func TestEncode_Concurrent(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgGameReset, protocol.GameResetPayload{GameID: "g1"})
	want, err := Encode(msg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Encode(msg)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
