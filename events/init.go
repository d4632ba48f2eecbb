package events

import (
	"encoding/json"
	"log/slog"

	"github.com/r3labs/sse/v2"
)

var Server *sse.Server

func Init() {
	server := sse.New()
	server.AutoReplay = false
	Server = server
}

// PublishSnapshot pushes the current playback snapshot to every connected
// dashboard on the playback stream.
func PublishSnapshot(v any) {
	if Server == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal snapshot for publishing",
			slog.String("stack", err.Error()))
		return
	}
	Server.Publish("playback", &sse.Event{Data: payload})
}
