package main

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xaionaro-go/shiftalign/pkg/align"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/codec"
	"github.com/xaionaro-go/shiftalign/pkg/syncer"
	"github.com/xaionaro-go/shiftalign/pkg/syncer/implementations/envxcorr"
	"github.com/xaionaro-go/shiftalign/pkg/syncer/implementations/gccphat"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr/implementations/direct"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr/implementations/fft"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr/implementations/fourier"
)

const (
	estimatorEnvelope = "envelope"
	estimatorGCCPHAT  = "gccphat"

	correlatorAuto = "auto"
)

var correlators = map[string]func() xcorr.Correlator{
	correlatorAuto: envxcorr.Auto,
	"direct":       direct.New,
	"fft":          fft.New,
	"fourier":      fourier.New,
}

func correlatorNames() []string {
	var names []string
	for name := range correlators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func estimatorNames() []string {
	return []string{estimatorEnvelope, estimatorGCCPHAT}
}

type config struct {
	InputA, InputB           string
	OutputA, OutputB         string
	Policy                   align.Policy
	SampleRateA, SampleRateB audio.SampleRate
	Syncer                   syncer.Syncer
	BitDepth                 int
	Play                     bool
}

// newConfig validates the command line before anything is decoded.
func newConfig(
	inputs, outputs []string,
	policy align.Policy,
	minOverlap, maxShift time.Duration,
	sampleRateA, sampleRateB audio.SampleRate,
	estimator, correlator string,
	bitDepth int,
	play bool,
) (config, error) {
	if len(inputs) != 2 {
		return config{}, fmt.Errorf("expected exactly two input files, got %d: %q", len(inputs), inputs)
	}
	if len(outputs) != 2 {
		return config{}, fmt.Errorf("expected exactly two output files, got %d: %q", len(outputs), outputs)
	}
	for _, path := range inputs {
		if _, err := codec.FormatFromPath(path); err != nil {
			return config{}, err
		}
	}
	for _, path := range outputs {
		format, err := codec.FormatFromPath(path)
		if err != nil {
			return config{}, err
		}
		if format != codec.FormatWAV {
			return config{}, fmt.Errorf("%w: only WAV output is supported, got '%s'", codec.ErrUnsupportedFormat, path)
		}
	}
	if err := policy.Validate(); err != nil {
		return config{}, err
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return config{}, fmt.Errorf("unsupported bit depth %d (expected 16, 24 or 32)", bitDepth)
	}
	if minOverlap < 0 || maxShift < 0 {
		return config{}, fmt.Errorf("min overlap and max shift must not be negative: got %v and %v", minOverlap, maxShift)
	}

	s, err := newSyncer(estimator, correlator, minOverlap, maxShift)
	if err != nil {
		return config{}, err
	}

	return config{
		InputA:      inputs[0],
		InputB:      inputs[1],
		OutputA:     outputs[0],
		OutputB:     outputs[1],
		Policy:      policy,
		SampleRateA: sampleRateA,
		SampleRateB: sampleRateB,
		Syncer:      s,
		BitDepth:    bitDepth,
		Play:        play,
	}, nil
}

func newSyncer(
	estimator, correlator string,
	minOverlap, maxShift time.Duration,
) (syncer.Syncer, error) {
	switch estimator {
	case estimatorEnvelope:
		newCorrelator, ok := correlators[correlator]
		if !ok {
			return nil, fmt.Errorf("unknown correlator '%s' (expected one of: %v)", correlator, correlatorNames())
		}
		cfg := envxcorr.DefaultConfig()
		cfg.MinOverlap = minOverlap
		cfg.MaxShift = maxShift
		cfg.Correlator = newCorrelator()
		return envxcorr.NewSyncer(cfg)
	case estimatorGCCPHAT:
		s := gccphat.NewSyncer()
		s.MaxShift = maxShift
		return sameRateSyncer{Syncer: s}, nil
	default:
		return nil, fmt.Errorf("unknown estimator '%s' (expected one of: %v)", estimator, estimatorNames())
	}
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
