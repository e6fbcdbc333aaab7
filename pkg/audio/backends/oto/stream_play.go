package oto

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

const drainPollInterval = 10 * time.Millisecond

type PlayStream struct {
	*oto.Player
}

func newPlayStream(player *oto.Player) *PlayStream {
	return &PlayStream{
		Player: player,
	}
}

func (stream *PlayStream) Drain() error {
	for stream.Player.IsPlaying() {
		time.Sleep(drainPollInterval)
	}
	if err := stream.Player.Err(); err != nil {
		return fmt.Errorf("an error occurred during playback: %w", err)
	}
	return nil
}

func (stream *PlayStream) Close() error {
	return stream.Player.Close()
}
