package envxcorr

import (
	"time"

	"github.com/xaionaro-go/shiftalign/pkg/envelope"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr"
)

const (
	DefaultMinOverlap = time.Second
	DefaultMaxShift   = 30 * time.Second
)

type Config struct {
	// WinLength and HopLength are the envelope analysis frame; zero
	// values mean envelope.DefaultWinLength and envelope.DefaultHopLength.
	WinLength time.Duration
	HopLength time.Duration

	// MinOverlap excludes lags where the envelopes overlap by less than
	// this; zero disables the constraint.
	MinOverlap time.Duration

	// MaxShift excludes lags further than this from the zero lag of the
	// envelope centers; zero disables the constraint.
	MaxShift time.Duration

	// Correlator is the cross-correlation engine; nil means Auto.
	Correlator xcorr.Correlator
}

func DefaultConfig() Config {
	return Config{
		WinLength:  envelope.DefaultWinLength,
		HopLength:  envelope.DefaultHopLength,
		MinOverlap: DefaultMinOverlap,
		MaxShift:   DefaultMaxShift,
	}
}

func (cfg Config) withDefaults() Config {
	if cfg.WinLength == 0 {
		cfg.WinLength = envelope.DefaultWinLength
	}
	if cfg.HopLength == 0 {
		cfg.HopLength = envelope.DefaultHopLength
	}
	if cfg.Correlator == nil {
		cfg.Correlator = Auto()
	}
	return cfg
}
