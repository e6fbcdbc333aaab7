package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/shiftalign/pkg/align"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/codec"
	"github.com/xaionaro-go/shiftalign/pkg/audio/resampler"
)

func run(
	ctx context.Context,
	cfg config,
) error {
	logger.Debugf(ctx, "config: %#+v", cfg)

	a, b, err := decodeBoth(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Infof(ctx, "A: %s; B: %s", a, b)

	result, err := align.AlignWith(ctx, cfg.Syncer, a, b, cfg.Policy)
	if err != nil {
		return fmt.Errorf("unable to align '%s' and '%s': %w", cfg.InputA, cfg.InputB, err)
	}
	logger.Infof(ctx, "shift of B: %s; aligned with %s: A: %s; B: %s", result.Shift, cfg.Policy, result.A, result.B)

	if cfg.Play {
		if err := preview(ctx, result.A, result.B); err != nil {
			logger.Errorf(ctx, "unable to play the preview: %v", err)
		}
	}

	return writeBoth(ctx, cfg, result.A, result.B)
}

func decodeBoth(
	ctx context.Context,
	cfg config,
) (audio.Waveform, audio.Waveform, error) {
	var (
		wg     sync.WaitGroup
		locker sync.Mutex
		mErr   *multierror.Error
		a, b   audio.Waveform
	)
	decode := func(path string, sampleRate audio.SampleRate, out *audio.Waveform) {
		defer wg.Done()
		w, err := codec.Decode(ctx, path, sampleRate)
		if err != nil {
			locker.Lock()
			defer locker.Unlock()
			mErr = multierror.Append(mErr, fmt.Errorf("unable to load '%s': %w", path, err))
			return
		}
		*out = w
	}

	wg.Add(2)
	observability.Go(ctx, func() { decode(cfg.InputA, cfg.SampleRateA, &a) })
	observability.Go(ctx, func() { decode(cfg.InputB, cfg.SampleRateB, &b) })
	wg.Wait()

	if err := mErr.ErrorOrNil(); err != nil {
		return audio.Waveform{}, audio.Waveform{}, err
	}
	return a, b, nil
}

// writeBoth writes both outputs or none of them.
func writeBoth(
	ctx context.Context,
	cfg config,
	a, b audio.Waveform,
) error {
	if err := codec.EncodeWAV(ctx, cfg.OutputA, a, cfg.BitDepth); err != nil {
		return fmt.Errorf("unable to write '%s': %w", cfg.OutputA, err)
	}
	if err := codec.EncodeWAV(ctx, cfg.OutputB, b, cfg.BitDepth); err != nil {
		err = fmt.Errorf("unable to write '%s': %w", cfg.OutputB, err)
		if rmErr := os.Remove(cfg.OutputA); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = multierror.Append(err, fmt.Errorf("unable to remove '%s': %w", cfg.OutputA, rmErr))
		}
		return err
	}
	logger.Infof(ctx, "written '%s' and '%s'", cfg.OutputA, cfg.OutputB)
	return nil
}

func preview(
	ctx context.Context,
	a, b audio.Waveform,
) error {
	if b.SampleRate != a.SampleRate {
		var err error
		b, err = resampler.ResampleWaveform(b, a.SampleRate)
		if err != nil {
			return fmt.Errorf("unable to resample B for the preview: %w", err)
		}
	}

	player := audio.NewPlayerAuto(ctx)
	defer player.Close()

	logger.Infof(ctx, "playing the aligned pair through %T (A left, B right)...", player.PlayerPCM)
	stream, err := player.PlayWaveforms(ctx, a, b)
	if err != nil {
		return err
	}
	defer stream.Close()
	return stream.Drain()
}
