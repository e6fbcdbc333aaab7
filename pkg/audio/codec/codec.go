// Package codec loads audio files into mono waveforms and writes
// waveforms back as WAV files.
package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/datacounter"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/resampler"
)

var (
	ErrDecode            = errors.New("decode error")
	ErrWrite             = errors.New("write error")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

type Format uint

const (
	FormatUndefined = Format(iota)
	FormatWAV
	FormatMP3
	FormatFLAC
	FormatOggVorbis
	EndOfFormat
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "<undefined>"
	case FormatWAV:
		return "wav"
	case FormatMP3:
		return "mp3"
	case FormatFLAC:
		return "flac"
	case FormatOggVorbis:
		return "ogg-vorbis"
	default:
		return fmt.Sprintf("<unknown_%d>", uint(f))
	}
}

// FormatFromPath detects the format by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".mp3":
		return FormatMP3, nil
	case ".flac":
		return FormatFLAC, nil
	case ".ogg", ".oga":
		return FormatOggVorbis, nil
	default:
		return FormatUndefined, fmt.Errorf("%w: extension '%s' of '%s'", ErrUnsupportedFormat, ext, path)
	}
}

type decodeFunc func(r io.ReadSeeker) (audio.Waveform, error)

func (f Format) decoder() (decodeFunc, error) {
	switch f {
	case FormatWAV:
		return decodeWAV, nil
	case FormatMP3:
		return decodeMP3, nil
	case FormatFLAC:
		return decodeFLAC, nil
	case FormatOggVorbis:
		return decodeOggVorbis, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// Decode loads the file as a mono waveform (channels are averaged). If
// targetRate is not zero the waveform is resampled to it, otherwise the
// native sample rate is kept.
func Decode(
	ctx context.Context,
	path string,
	targetRate audio.SampleRate,
) (_ret audio.Waveform, _err error) {
	logger.Debugf(ctx, "Decode(ctx, '%s', %d)", path, targetRate)
	defer func() { logger.Debugf(ctx, "/Decode(ctx, '%s', %d): %s %v", path, targetRate, _ret, _err) }()

	format, err := FormatFromPath(path)
	if err != nil {
		return audio.Waveform{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("%w: unable to open '%s': %w", ErrDecode, path, err)
	}
	defer f.Close()

	counter := datacounter.NewReaderCounter(f)
	data, err := io.ReadAll(counter)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("%w: unable to read '%s': %w", ErrDecode, path, err)
	}
	logger.Debugf(ctx, "read %d bytes of %s from '%s'", counter.Count(), format, path)

	return DecodeBytes(ctx, format, data, targetRate)
}

// DecodeBytes is Decode for an in-memory file.
func DecodeBytes(
	ctx context.Context,
	format Format,
	data []byte,
	targetRate audio.SampleRate,
) (audio.Waveform, error) {
	decode, err := format.decoder()
	if err != nil {
		return audio.Waveform{}, err
	}

	w, err := decode(bytes.NewReader(data))
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	if err := w.Validate(); err != nil {
		return audio.Waveform{}, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	logger.Debugf(ctx, "decoded %s: %s", format, w)

	if targetRate == 0 || targetRate == w.SampleRate {
		return w, nil
	}
	resampled, err := resampler.ResampleWaveform(w, targetRate)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to resample %s to %dHz: %w", w, targetRate, err)
	}
	logger.Debugf(ctx, "resampled to %s", resampled)
	return resampled, nil
}
