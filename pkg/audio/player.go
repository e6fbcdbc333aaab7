package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/shiftalign/pkg/audio/registry"
)

const BufferSize = 100 * time.Millisecond

type Player struct {
	PlayerPCM
}

func NewPlayer(playerPCM PlayerPCM) *Player {
	return &Player{
		PlayerPCM: playerPCM,
	}
}

var (
	lastSuccessfulPlayerFactory       registry.PlayerPCMFactory
	lastSuccessfulPlayerFactoryLocker sync.Mutex
)

func getLastSuccessfulPlayerFactory() registry.PlayerPCMFactory {
	lastSuccessfulPlayerFactoryLocker.Lock()
	defer lastSuccessfulPlayerFactoryLocker.Unlock()
	return lastSuccessfulPlayerFactory
}

func setLastSuccessfulPlayerFactory(factory registry.PlayerPCMFactory) {
	lastSuccessfulPlayerFactoryLocker.Lock()
	defer lastSuccessfulPlayerFactoryLocker.Unlock()
	lastSuccessfulPlayerFactory = factory
}

func tryPlayerFactory(
	ctx context.Context,
	factory registry.PlayerPCMFactory,
) (PlayerPCM, error) {
	player, err := factory.NewPlayerPCM()
	logger.Debugf(ctx, "initializing player using %T result is %v", factory, err)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a player using %T: %w", factory, err)
	}

	err = player.Ping(ctx)
	logger.Debugf(ctx, "pinging PCM player %T result is %v", player, err)
	if err != nil {
		_ = player.Close()
		return nil, fmt.Errorf("unable to ping %T: %w", player, err)
	}
	return player, nil
}

// NewPlayerAuto picks the highest-priority registered backend that works,
// falling back to a dummy player if none does.
func NewPlayerAuto(
	ctx context.Context,
) *Player {
	if factory := getLastSuccessfulPlayerFactory(); factory != nil {
		if player, err := tryPlayerFactory(ctx, factory); err == nil {
			return NewPlayer(player)
		}
	}

	var mErr *multierror.Error
	for _, factory := range registry.PlayerFactories() {
		player, err := tryPlayerFactory(ctx, factory)
		if err != nil {
			mErr = multierror.Append(mErr, err)
			continue
		}
		setLastSuccessfulPlayerFactory(factory)
		return NewPlayer(player)
	}

	logger.Infof(ctx, "was unable to initialize any PCM player: %v", mErr.ErrorOrNil())
	return &Player{
		PlayerPCM: PlayerPCMDummy{},
	}
}

// PlayWaveforms plays the waveforms simultaneously, one waveform per
// output channel. All waveforms must share the sample rate; shorter
// ones are followed by silence.
func (a *Player) PlayWaveforms(
	ctx context.Context,
	waveforms ...Waveform,
) (PlayStream, error) {
	pcm, sampleRate, err := InterleaveFloat32LE(waveforms...)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "playing %d channels, %d bytes @ %dHz", len(waveforms), len(pcm), sampleRate)

	stream, err := a.PlayerPCM.PlayPCM(
		ctx,
		sampleRate,
		Channel(len(waveforms)),
		PCMFormatFloat32LE,
		BufferSize,
		bytes.NewReader(pcm),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to playback as PCM: %w", err)
	}
	return stream, nil
}

// InterleaveFloat32LE packs the waveforms into an interleaved float32
// little-endian PCM stream.
func InterleaveFloat32LE(
	waveforms ...Waveform,
) ([]byte, SampleRate, error) {
	if len(waveforms) == 0 {
		return nil, 0, fmt.Errorf("no waveforms given")
	}
	sampleRate := waveforms[0].SampleRate
	numFrames := 0
	for idx, w := range waveforms {
		if err := w.Validate(); err != nil {
			return nil, 0, fmt.Errorf("waveform #%d: %w", idx, err)
		}
		if w.SampleRate != sampleRate {
			return nil, 0, fmt.Errorf("waveform #%d has sample rate %d, while #0 has %d", idx, w.SampleRate, sampleRate)
		}
		numFrames = max(numFrames, w.Len())
	}

	channels := len(waveforms)
	sampleSize := int(PCMFormatFloat32LE.Size())
	out := make([]byte, numFrames*channels*sampleSize)
	for ch, w := range waveforms {
		for pos, v := range w.Samples {
			idx := (pos*channels + ch) * sampleSize
			binary.LittleEndian.PutUint32(out[idx:], math.Float32bits(float32(v)))
		}
	}
	return out, sampleRate, nil
}

func (a *Player) PlayPCM(
	ctx context.Context,
	sampleRate SampleRate,
	channels Channel,
	pcmFormat PCMFormat,
	bufferSize time.Duration,
	pcmReader io.Reader,
) (PlayStream, error) {
	return a.PlayerPCM.PlayPCM(
		ctx,
		sampleRate,
		channels,
		pcmFormat,
		bufferSize,
		pcmReader,
	)
}
