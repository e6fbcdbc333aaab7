package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// PlayerPCMDummy discards everything; it is used when no playback
// backend could be initialized, so that a preview never fails the run.
type PlayerPCMDummy struct{}

var _ PlayerPCM = PlayerPCMDummy{}

func (PlayerPCMDummy) Close() error {
	return nil
}

func (PlayerPCMDummy) Ping(context.Context) error {
	return nil
}

func (PlayerPCMDummy) PlayPCM(
	ctx context.Context,
	sampleRate SampleRate,
	channels Channel,
	format PCMFormat,
	bufferSize time.Duration,
	reader io.Reader,
) (PlayStream, error) {
	n, err := io.Copy(io.Discard, reader)
	if err != nil {
		return nil, fmt.Errorf("unable to consume the PCM stream: %w", err)
	}
	logger.Warnf(ctx, "no playback backend available, discarded %d bytes of %dch %v @ %dHz", n, channels, format, sampleRate)
	return StreamDummy{}, nil
}

type StreamDummy struct{}

var _ PlayStream = StreamDummy{}

func (StreamDummy) Drain() error {
	return nil
}

func (StreamDummy) Close() error {
	return nil
}
