package codec

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE

	outputFileMode = os.FileMode(0o644)
)

func decodeWAV(r io.ReadSeeker) (audio.Waveform, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return audio.Waveform{}, fmt.Errorf("not a valid WAV file: %v", d.Err())
	}
	isFloat := false
	switch d.WavAudioFormat {
	case wavFormatPCM, wavFormatExtensible:
	case wavFormatIEEEFloat:
		if d.BitDepth != 32 {
			return audio.Waveform{}, fmt.Errorf("only 32-bit IEEE float WAV files are supported, got %d bits", d.BitDepth)
		}
		isFloat = true
	default:
		return audio.Waveform{}, fmt.Errorf("only PCM and IEEE float WAV files are supported, got format 0x%X", d.WavAudioFormat)
	}
	if d.NumChans == 0 {
		return audio.Waveform{}, fmt.Errorf("the amount of channels is zero")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to read the PCM data: %w", err)
	}

	channels := int(d.NumChans)
	bitDepth := int(d.BitDepth)
	scale := math.Ldexp(1, bitDepth-1)
	offset := 0.0
	if bitDepth == 8 {
		// 8-bit WAV is unsigned
		offset = scale
	}
	toFloat := func(v int) float64 {
		return (float64(v) - offset) / scale
	}
	if isFloat {
		// the decoder hands over the raw bits as a sign-extended int32
		toFloat = func(v int) float64 {
			return float64(math.Float32frombits(uint32(int32(v))))
		}
	}

	samples := make([]float64, len(buf.Data)/channels)
	for i := range samples {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += toFloat(buf.Data[i*channels+ch])
		}
		samples[i] = sum / float64(channels)
	}
	return audio.Waveform{
		Samples:    samples,
		SampleRate: audio.SampleRate(d.SampleRate),
	}, nil
}

// EncodeWAV writes the waveform as a mono integer PCM WAV file of the
// given bit depth (16, 24 or 32), clipping the samples to [-1, 1]. The
// file is first written next to path and then renamed, so a failed write
// never leaves a truncated file at path. An overwritten file keeps its
// permissions; a new one gets 0644.
func EncodeWAV(
	ctx context.Context,
	path string,
	w audio.Waveform,
	bitDepth int,
) (_err error) {
	logger.Debugf(ctx, "EncodeWAV(ctx, '%s', %s, %d)", path, w, bitDepth)
	defer func() { logger.Debugf(ctx, "/EncodeWAV(ctx, '%s', %s, %d): %v", path, w, bitDepth, _err) }()

	if err := w.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: unsupported bit depth %d (expected 16, 24 or 32)", ErrWrite, bitDepth)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: unable to create a temporary file for '%s': %w", ErrWrite, path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if _err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	mode := outputFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("%w: unable to set mode %v on '%s': %w", ErrWrite, mode, tmpPath, err)
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  int(w.SampleRate),
		},
		Data:           make([]int, len(w.Samples)),
		SourceBitDepth: bitDepth,
	}
	scale := math.Ldexp(1, bitDepth-1)
	for i, v := range w.Samples {
		buf.Data[i] = int(clip(math.Round(v*scale), -scale, scale-1))
	}

	enc := wav.NewEncoder(tmp, int(w.SampleRate), bitDepth, 1, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w: unable to write samples to '%s': %w", ErrWrite, tmpPath, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: unable to finalize '%s': %w", ErrWrite, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: unable to close '%s': %w", ErrWrite, tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: unable to rename '%s' to '%s': %w", ErrWrite, tmpPath, path, err)
	}
	return nil
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
