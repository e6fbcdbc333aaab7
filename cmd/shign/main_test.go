package main

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/shiftalign/pkg/align"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/codec"
	"github.com/xaionaro-go/shiftalign/pkg/syncer/implementations/envxcorr"
)

func toneInSilence(sr audio.SampleRate, before, tone, after time.Duration) audio.Waveform {
	nBefore := sr.SamplesForDuration(before)
	nTone := sr.SamplesForDuration(tone)
	nAfter := sr.SamplesForDuration(after)
	samples := make([]float64, nBefore+nTone+nAfter)
	for i := 0; i < nTone; i++ {
		samples[nBefore+i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sr))
	}
	return audio.Waveform{Samples: samples, SampleRate: sr}
}

func writeInputs(t *testing.T, dir string) (string, string) {
	ctx := context.Background()
	pathA := filepath.Join(dir, "a.wav")
	pathB := filepath.Join(dir, "b.wav")
	require.NoError(t, codec.EncodeWAV(ctx, pathA, toneInSilence(16000, 2*time.Second, time.Second, 2*time.Second), 16))
	require.NoError(t, codec.EncodeWAV(ctx, pathB, toneInSilence(16000, 0, time.Second, 2500*time.Millisecond), 16))
	return pathA, pathB
}

func defaultTestConfig(t *testing.T, inputs, outputs []string, policy align.Policy, estimator string) config {
	cfg, err := newConfig(
		inputs, outputs,
		policy,
		envxcorr.DefaultMinOverlap, envxcorr.DefaultMaxShift,
		0, 0,
		estimator, correlatorAuto,
		16,
		false,
	)
	require.NoError(t, err)
	return cfg
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	pathA, pathB := writeInputs(t, dir)

	for _, estimator := range estimatorNames() {
		t.Run(estimator, func(t *testing.T) {
			outA := filepath.Join(dir, estimator+"-out-a.wav")
			outB := filepath.Join(dir, estimator+"-out-b.wav")
			cfg := defaultTestConfig(t, []string{pathA, pathB}, []string{outA, outB}, align.PolicyPadBoth, estimator)
			require.NoError(t, run(ctx, cfg))

			a, err := codec.Decode(ctx, outA, 0)
			require.NoError(t, err)
			b, err := codec.Decode(ctx, outB, 0)
			require.NoError(t, err)
			assert.Equal(t, audio.SampleRate(16000), a.SampleRate)
			assert.Equal(t, audio.SampleRate(16000), b.SampleRate)
			assert.InDelta(t, 88000, a.Len(), 160)
			assert.Equal(t, a.Len(), b.Len())
		})
	}

	t.Run("DifferentRates", func(t *testing.T) {
		outA := filepath.Join(dir, "rates-out-a.wav")
		outB := filepath.Join(dir, "rates-out-b.wav")
		cfg := defaultTestConfig(t, []string{pathA, pathB}, []string{outA, outB}, align.PolicyPadAndCropOneToMatchOther, estimatorEnvelope)
		cfg.SampleRateB = 8000
		require.NoError(t, run(ctx, cfg))

		a, err := codec.Decode(ctx, outA, 0)
		require.NoError(t, err)
		b, err := codec.Decode(ctx, outB, 0)
		require.NoError(t, err)
		assert.Equal(t, audio.SampleRate(16000), a.SampleRate)
		assert.Equal(t, audio.SampleRate(8000), b.SampleRate)
		assert.InDelta(t, a.DurationMS(), b.DurationMS(), 1)
	})

	t.Run("MissingInput", func(t *testing.T) {
		outA := filepath.Join(dir, "missing-out-a.wav")
		outB := filepath.Join(dir, "missing-out-b.wav")
		cfg := defaultTestConfig(t, []string{filepath.Join(dir, "nope.wav"), pathB}, []string{outA, outB}, align.PolicyPadBoth, estimatorEnvelope)
		err := run(ctx, cfg)
		assert.ErrorIs(t, err, codec.ErrDecode)
		assert.NoFileExists(t, outA)
		assert.NoFileExists(t, outB)
	})

	t.Run("SecondWriteFails", func(t *testing.T) {
		outA := filepath.Join(dir, "partial-out-a.wav")
		outB := filepath.Join(dir, "no-such-dir", "partial-out-b.wav")
		cfg := defaultTestConfig(t, []string{pathA, pathB}, []string{outA, outB}, align.PolicyCropBoth, estimatorEnvelope)
		err := run(ctx, cfg)
		assert.ErrorIs(t, err, codec.ErrWrite)
		assert.NoFileExists(t, outA)
	})
}

func TestNewConfig(t *testing.T) {
	inputs := []string{"a.wav", "b.mp3"}
	outputs := []string{"out-a.wav", "out-b.wav"}
	type args struct {
		inputs, outputs       []string
		policy                align.Policy
		minOverlap, maxShift  time.Duration
		estimator, correlator string
		bitDepth              int
	}
	valid := args{
		inputs:     inputs,
		outputs:    outputs,
		policy:     align.PolicyPadBoth,
		minOverlap: time.Second,
		maxShift:   30 * time.Second,
		estimator:  estimatorEnvelope,
		correlator: correlatorAuto,
		bitDepth:   16,
	}

	newCfg := func(a args) (config, error) {
		return newConfig(a.inputs, a.outputs, a.policy, a.minOverlap, a.maxShift, 0, 0, a.estimator, a.correlator, a.bitDepth, false)
	}

	cfg, err := newCfg(valid)
	require.NoError(t, err)
	assert.Equal(t, "a.wav", cfg.InputA)
	assert.Equal(t, "b.mp3", cfg.InputB)
	assert.Equal(t, "out-a.wav", cfg.OutputA)
	assert.Equal(t, "out-b.wav", cfg.OutputB)
	assert.IsType(t, &envxcorr.Syncer{}, cfg.Syncer)

	for name, mutate := range map[string]func(*args){
		"OneInput":          func(a *args) { a.inputs = inputs[:1] },
		"ThreeOutputs":      func(a *args) { a.outputs = append(outputs, "c.wav") },
		"UnknownInputExt":   func(a *args) { a.inputs = []string{"a.wav", "b.aac"} },
		"NonWAVOutput":      func(a *args) { a.outputs = []string{"out-a.wav", "out-b.flac"} },
		"UndefinedPolicy":   func(a *args) { a.policy = align.PolicyUndefined },
		"BadBitDepth":       func(a *args) { a.bitDepth = 8 },
		"NegativeMaxShift":  func(a *args) { a.maxShift = -time.Second },
		"UnknownEstimator":  func(a *args) { a.estimator = "magic" },
		"UnknownCorrelator": func(a *args) { a.correlator = "magic" },
	} {
		t.Run(name, func(t *testing.T) {
			a := valid
			mutate(&a)
			_, err := newCfg(a)
			assert.Error(t, err)
		})
	}

	t.Run("UndefinedPolicyIsUnknown", func(t *testing.T) {
		a := valid
		a.policy = align.PolicyUndefined
		_, err := newCfg(a)
		assert.ErrorIs(t, err, align.ErrUnknownPolicy)
	})

	t.Run("NonWAVOutputIsUnsupported", func(t *testing.T) {
		a := valid
		a.outputs = []string{"out-a.mp3", "out-b.wav"}
		_, err := newCfg(a)
		assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)
	})
}

func TestUnderscoreFlags(t *testing.T) {
	flags := pflag.NewFlagSet("shign", pflag.ContinueOnError)
	policy := align.PolicyPadBoth
	flags.Var(&policy, "align-how", "")
	minOverlapSec := flags.Float64("min-overlap-sec", 1, "")
	flags.SetNormalizeFunc(underscoreToDash)

	require.NoError(t, flags.Parse([]string{"--align_how", "crop_both", "--min_overlap_sec=2.5"}))
	assert.Equal(t, align.PolicyCropBoth, policy)
	assert.Equal(t, 2.5, *minOverlapSec)
}

func TestSecondsToDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, secondsToDuration(1.5))
	assert.Equal(t, time.Duration(0), secondsToDuration(0))
}
