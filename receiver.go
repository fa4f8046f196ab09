package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"shared-canvas/dispatcher"
)

// ReceiverSSE writes server-sent events to one HTTP client.
type ReceiverSSE struct {
	w http.ResponseWriter
	f http.Flusher
}

func NewReceiverSSE(w http.ResponseWriter, f http.Flusher) *ReceiverSSE {
	return &ReceiverSSE{w, f}
}

func (r ReceiverSSE) SendByteSlice(msg []byte) error {
	if _, err := fmt.Fprintf(r.w, "data: %v\n\n", string(msg)); err != nil {
		return err
	}
	r.f.Flush()
	return nil
}

func (r ReceiverSSE) sendJSON(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.SendByteSlice(data)
}

func (r ReceiverSSE) SendStats(stats dispatcher.Stats) error {
	return r.sendJSON(struct {
		Type string `json:"type"`
		dispatcher.Stats
	}{Type: "stats", Stats: stats})
}
