package oto

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/shiftalign/pkg/audio/resampler"
	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

type PlayerPCM struct{}

var _ types.PlayerPCM = (*PlayerPCM)(nil)

func NewPlayerPCM() *PlayerPCM {
	return &PlayerPCM{}
}

func (p *PlayerPCM) Close() error {
	return nil
}

func (*PlayerPCM) Ping(context.Context) error {
	// oto has no way to probe the device without opening the context
	return nil
}

func (p *PlayerPCM) PlayPCM(
	ctx context.Context,
	sampleRate types.SampleRate,
	channels types.Channel,
	format types.PCMFormat,
	bufferSize time.Duration,
	reader io.Reader,
) (types.PlayStream, error) {
	otoCtx, ctxFmt, err := getOtoContext(contextFormat{
		SampleRate: sampleRate,
		Channels:   channels,
		BufferSize: bufferSize,
	})
	if err != nil {
		return nil, err
	}

	if sampleRate != ctxFmt.SampleRate || channels != ctxFmt.Channels || format != Format {
		inFmt := resampler.Format{
			Channels:   channels,
			SampleRate: sampleRate,
			PCMFormat:  format,
		}
		outFmt := resampler.Format{
			Channels:   ctxFmt.Channels,
			SampleRate: ctxFmt.SampleRate,
			PCMFormat:  Format,
		}
		logger.Debugf(ctx, "the oto context is already opened as %#+v, converting %#+v", ctxFmt, inFmt)
		reader, err = resampler.NewResampler(inFmt, reader, outFmt)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize a resampler from %#+v to %#+v: %w", inFmt, outFmt, err)
		}
	}

	player := otoCtx.NewPlayer(reader)
	player.Play()

	return newPlayStream(player), nil
}
