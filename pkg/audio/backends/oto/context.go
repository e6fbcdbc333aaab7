package oto

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

const (
	Format = types.PCMFormatFloat32LE
)

// contextFormat is the format the process-wide oto context was opened
// with. oto allows only one context per process, so the first PlayPCM
// call decides it and later calls are converted to it.
type contextFormat struct {
	SampleRate types.SampleRate
	Channels   types.Channel
	BufferSize time.Duration
}

var (
	otoContextLocker sync.Mutex
	otoContext       *oto.Context
	otoContextFormat contextFormat
)

func getOtoContext(wanted contextFormat) (*oto.Context, contextFormat, error) {
	otoContextLocker.Lock()
	defer otoContextLocker.Unlock()
	if otoContext != nil {
		return otoContext, otoContextFormat, nil
	}

	otoCtx, readyCh, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(wanted.SampleRate),
		ChannelCount: int(wanted.Channels),
		Format:       oto.FormatFloat32LE,
		BufferSize:   wanted.BufferSize,
	})
	if err != nil {
		return nil, contextFormat{}, fmt.Errorf("unable to initialize an oto context for %#+v: %w", wanted, err)
	}
	<-readyCh

	otoContext = otoCtx
	otoContextFormat = wanted
	return otoContext, otoContextFormat, nil
}
