package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/shiftalign/pkg/align"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	_ "github.com/xaionaro-go/shiftalign/pkg/audio/backends/oto"
	_ "github.com/xaionaro-go/shiftalign/pkg/audio/backends/pulseaudio"
	"github.com/xaionaro-go/shiftalign/pkg/syncer/implementations/envxcorr"
)

func main() {
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	inputs := pflag.StringSliceP("input", "i", nil, "the two input audio files: A,B (wav, mp3, flac or ogg)")
	outputs := pflag.StringSliceP("output", "o", nil, "the two output WAV files: A,B")
	policy := align.PolicyPadBoth
	pflag.Var(&policy, "align-how", "how to align: "+strings.Join(align.PolicyNames(), ", "))
	minOverlapSec := pflag.Float64("min-overlap-sec", envxcorr.DefaultMinOverlap.Seconds(), "the minimal overlap of the recordings in seconds, 0 disables the constraint")
	maxShiftSec := pflag.Float64("max-shift-sec", envxcorr.DefaultMaxShift.Seconds(), "the maximal shift of the centers of the recordings in seconds, 0 disables the constraint")
	sampleRateA := pflag.Uint32("sample-rate-a", 0, "resample A to this rate while loading, 0 keeps the native rate")
	sampleRateB := pflag.Uint32("sample-rate-b", 0, "resample B to this rate while loading, 0 keeps the native rate")
	estimator := pflag.String("estimator", estimatorEnvelope, "the shift estimator: "+strings.Join(estimatorNames(), ", "))
	correlator := pflag.String("correlator", correlatorAuto, "the cross-correlation engine of the envelope estimator: "+strings.Join(correlatorNames(), ", "))
	bitDepth := pflag.Int("bit-depth", 16, "the bit depth of the output files: 16, 24 or 32")
	play := pflag.Bool("play", false, "play the aligned pair (A left, B right) before writing it")
	pflag.CommandLine.SetNormalizeFunc(underscoreToDash)
	pflag.Parse()

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg, err := newConfig(
		*inputs, *outputs,
		policy,
		secondsToDuration(*minOverlapSec), secondsToDuration(*maxShiftSec),
		audio.SampleRate(*sampleRateA), audio.SampleRate(*sampleRateB),
		*estimator, *correlator,
		*bitDepth,
		*play,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n\n", err)
		pflag.Usage()
		belt.Flush(ctx)
		os.Exit(2)
	}

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		belt.Flush(ctx)
		os.Exit(1)
	}
}

// underscoreToDash makes --align_how, --min_overlap_sec and friends
// equivalent to their dashed spelling.
func underscoreToDash(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
