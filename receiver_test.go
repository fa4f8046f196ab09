package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shared-canvas/dispatcher"
	"shared-canvas/room"
)

func TestReceiver(t *testing.T) {
	t.Run("test sse", func(t *testing.T) {
		res := httptest.NewRecorder()

		receiver := NewReceiverSSE(res, res)
		err := receiver.SendStats(dispatcher.Stats{
			Rooms:     []room.Stats{{ID: "default", Users: 2}},
			Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		})
		require.NoError(t, err)

		body := res.Body.String()
		assert.True(t, strings.HasPrefix(body, "data: "))
		assert.True(t, strings.HasSuffix(body, "\n\n"))
		assert.Contains(t, body, `"type":"stats"`)
		assert.Contains(t, body, `"id":"default","users":2`)
		assert.True(t, res.Flushed)
	})
}
