package align

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

var ErrUnknownPolicy = errors.New("unknown alignment policy")

type Policy uint

const (
	PolicyUndefined = Policy(iota)

	// PolicyPadBoth adds silence to both waveforms, nothing is lost.
	PolicyPadBoth

	// PolicyCropBoth keeps only the part recorded by both waveforms.
	PolicyCropBoth

	// PolicyPadAndCropOneToMatchOther keeps the first waveform as is
	// and pads or crops the second one to match it.
	PolicyPadAndCropOneToMatchOther

	EndOfPolicy
)

var _ pflag.Value = (*Policy)(nil)

func (p Policy) String() string {
	switch p {
	case PolicyUndefined:
		return "<undefined>"
	case PolicyPadBoth:
		return "pad_both"
	case PolicyCropBoth:
		return "crop_both"
	case PolicyPadAndCropOneToMatchOther:
		return "pad_and_crop_one_to_match_other"
	default:
		return fmt.Sprintf("<unknown_%d>", uint(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p := PolicyUndefined + 1; p < EndOfPolicy; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PolicyUndefined, fmt.Errorf("%w: '%s' (expected one of: %s)", ErrUnknownPolicy, s, strings.Join(PolicyNames(), ", "))
}

func PolicyNames() []string {
	var names []string
	for p := PolicyUndefined + 1; p < EndOfPolicy; p++ {
		names = append(names, p.String())
	}
	return names
}

func (p Policy) Validate() error {
	if p <= PolicyUndefined || p >= EndOfPolicy {
		return fmt.Errorf("%w: %s", ErrUnknownPolicy, p)
	}
	return nil
}

func (p *Policy) Set(s string) error {
	v, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p *Policy) Type() string {
	return "policy"
}
