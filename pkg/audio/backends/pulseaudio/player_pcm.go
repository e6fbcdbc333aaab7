package pulseaudio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
	"github.com/xaionaro-go/shiftalign/pkg/audio/resampler"
	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

// playbackFormat is the only sample format handed to Pulse; anything
// else is converted by the resampler first.
const playbackFormat = types.PCMFormatFloat32LE

type PlayerPCM struct {
	PulseClient *pulse.Client
}

var _ types.PlayerPCM = (*PlayerPCM)(nil)

func NewPlayerPCM() (*PlayerPCM, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("unable to open a client to Pulse: %w", err)
	}
	return &PlayerPCM{
		PulseClient: c,
	}, nil
}

func (p *PlayerPCM) Close() error {
	p.PulseClient.Close()
	return nil
}

func (p *PlayerPCM) Ping(context.Context) error {
	_, err := p.PulseClient.DefaultSink()
	return err
}

func channelMap(channels types.Channel) (proto.ChannelMap, error) {
	switch channels {
	case 1:
		return proto.ChannelMap{proto.ChannelMono}, nil
	case 2:
		return proto.ChannelMap{proto.ChannelLeft, proto.ChannelRight}, nil
	default:
		return nil, fmt.Errorf("do not know how to configure %d channels", channels)
	}
}

func (p *PlayerPCM) PlayPCM(
	ctx context.Context,
	sampleRate types.SampleRate,
	channels types.Channel,
	format types.PCMFormat,
	bufferSize time.Duration,
	rawReader io.Reader,
) (types.PlayStream, error) {
	chanMap, err := channelMap(channels)
	if err != nil {
		return nil, err
	}

	if format != playbackFormat {
		logger.Debugf(ctx, "converting %v to %v for Pulse", format, playbackFormat)
		rawReader, err = resampler.NewResampler(
			resampler.Format{Channels: channels, SampleRate: sampleRate, PCMFormat: format},
			rawReader,
			resampler.Format{Channels: channels, SampleRate: sampleRate, PCMFormat: playbackFormat},
		)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize a format converter: %w", err)
		}
	}

	stream, err := p.PulseClient.NewPlayback(
		float32Reader{Reader: rawReader},
		pulse.PlaybackLatency(bufferSize.Seconds()),
		pulse.PlaybackSampleRate(int(sampleRate)),
		pulse.PlaybackChannels(chanMap),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a playback: %w", err)
	}

	stream.Start()
	if stream.Error() != nil {
		return nil, fmt.Errorf("an error occurred during playback: %w", stream.Error())
	}

	return newPlayStream(stream), nil
}

type float32Reader struct {
	io.Reader
}

var _ pulse.Reader = float32Reader{}

func (float32Reader) Format() byte {
	return proto.FormatFloat32LE
}
