package resampler

import (
	"fmt"
	"io"
	"sync"

	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

const (
	distanceStep = 10000
)

type Format struct {
	Channels   audio.Channel
	SampleRate audio.SampleRate
	PCMFormat  types.PCMFormat
}

func (f Format) validate() error {
	if f.Channels == 0 {
		return fmt.Errorf("the amount of channels is zero")
	}
	if f.SampleRate == 0 {
		return audio.ErrNoSampleRate
	}
	if f.PCMFormat.Size() == 0 {
		return fmt.Errorf("unsupported PCM format: %v", f.PCMFormat)
	}
	return nil
}

type precalculated struct {
	inSampleSize    uint
	outSampleSize   uint
	inNumAvg        uint
	outNumRepeat    uint
	outDistanceStep uint64
}

// Resampler is a streaming converter of interleaved PCM: it converts the
// sample format, averages channels down to mono or repeats mono up to
// many channels, and changes the sample rate by dropping or repeating
// frames. It is meant for previews and format glue; use ResampleWaveform
// when the signal quality matters.
type Resampler struct {
	inReader    io.Reader
	inFormat    Format
	outFormat   Format
	inDistance  uint64
	outDistance uint64
	locker      sync.Mutex
	buffer      []byte
	precalculated
}

var _ io.Reader = (*Resampler)(nil)

func NewResampler(
	inFormat Format,
	inReader io.Reader,
	outFormat Format,
) (*Resampler, error) {
	r := &Resampler{
		inReader:  inReader,
		inFormat:  inFormat,
		outFormat: outFormat,
	}
	err := r.init()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a resampler from %#+v to %#+v: %w", inFormat, outFormat, err)
	}
	return r, nil
}

func (r *Resampler) init() error {
	if err := r.inFormat.validate(); err != nil {
		return fmt.Errorf("invalid input format: %w", err)
	}
	if err := r.outFormat.validate(); err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	r.inSampleSize = r.inFormat.PCMFormat.Size()
	r.outSampleSize = r.outFormat.PCMFormat.Size()

	r.inNumAvg = 1
	r.outNumRepeat = 1
	if r.inFormat.Channels != r.outFormat.Channels {
		switch {
		case r.inFormat.Channels == 1:
			r.outNumRepeat = uint(r.outFormat.Channels)
		case r.outFormat.Channels == 1:
			r.inNumAvg = uint(r.inFormat.Channels)
		default:
			return fmt.Errorf("do not know how to convert %d channels to %d", r.inFormat.Channels, r.outFormat.Channels)
		}
	}

	sampleRateAdjust := float64(r.outFormat.SampleRate) / float64(r.inFormat.SampleRate)
	r.outDistanceStep = uint64(float64(distanceStep) / sampleRateAdjust)

	r.inDistance = 0
	r.outDistance = 0
	return nil
}

func (r *Resampler) inFrameSize() uint64 {
	return uint64(r.inSampleSize) * uint64(r.inNumAvg)
}

func (r *Resampler) readInFrame(frameIdx uint64) float64 {
	offset := frameIdx * r.inFrameSize()
	var sum float64
	for ch := uint64(0); ch < uint64(r.inNumAvg); ch++ {
		sum += SampleFromBytes(r.inFormat.PCMFormat, r.buffer[offset+ch*uint64(r.inSampleSize):])
	}
	return sum / float64(r.inNumAvg)
}

func (r *Resampler) writeOutFrame(p []byte, frameIdx uint64, v float64) {
	for rep := uint64(0); rep < uint64(r.outNumRepeat); rep++ {
		offset := (frameIdx*uint64(r.outNumRepeat) + rep) * uint64(r.outSampleSize)
		SampleToBytes(r.outFormat.PCMFormat, p[offset:], v)
	}
}

func (r *Resampler) Read(p []byte) (int, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	maxOutFrames := uint64(len(p)) / uint64(r.outSampleSize) / uint64(r.outNumRepeat)
	if maxOutFrames == 0 {
		return 0, nil
	}

	framesToRead := uint64(float64(maxOutFrames) * float64(r.inFormat.SampleRate) / float64(r.outFormat.SampleRate))
	if framesToRead == 0 {
		framesToRead = 1
	}
	bytesToRead := framesToRead * r.inFrameSize()
	if uint64(cap(r.buffer)) < bytesToRead {
		r.buffer = make([]byte, bytesToRead)
	} else {
		r.buffer = r.buffer[:bytesToRead]
	}
	n, err := io.ReadFull(r.inReader, r.buffer)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	r.buffer = r.buffer[:n]

	if n%int(r.inFrameSize()) != 0 {
		return 0, fmt.Errorf("read a number of bytes (%d) that is not a multiple of %d", n, r.inFrameSize())
	}
	framesRead := uint64(n) / r.inFrameSize()

	outIdx := uint64(0)
	inIdx := uint64(0)
	for inIdx < framesRead && outIdx < maxOutFrames {
		// the output is behind in time: skip input frames
		for r.inDistance < r.outDistance && inIdx < framesRead {
			inIdx++
			r.inDistance += distanceStep
		}
		if inIdx >= framesRead {
			break
		}

		v := r.readInFrame(inIdx)
		for outIdx < maxOutFrames && r.outDistance <= r.inDistance {
			r.writeOutFrame(p, outIdx, v)
			outIdx++
			r.outDistance += r.outDistanceStep
		}

		inIdx++
		r.inDistance += distanceStep
	}

	written := int(outIdx * uint64(r.outSampleSize) * uint64(r.outNumRepeat))
	if err == io.EOF && written > 0 {
		// report the data first, EOF will come on the next call
		err = nil
	}
	return written, err
}
