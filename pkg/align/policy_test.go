package align

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy(t *testing.T) {
	for p := PolicyUndefined + 1; p < EndOfPolicy; p++ {
		parsed, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
		assert.NoError(t, p.Validate())
	}

	p, err := ParsePolicy(" Crop_Both ")
	require.NoError(t, err)
	assert.Equal(t, PolicyCropBoth, p)

	_, err = ParsePolicy("pad-both")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
	_, err = ParsePolicy("")
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	assert.ErrorIs(t, PolicyUndefined.Validate(), ErrUnknownPolicy)
	assert.ErrorIs(t, EndOfPolicy.Validate(), ErrUnknownPolicy)

	assert.Equal(t, []string{"pad_both", "crop_both", "pad_and_crop_one_to_match_other"}, PolicyNames())
}

func TestPolicyFlag(t *testing.T) {
	policy := PolicyPadBoth
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Var(&policy, "align-how", "")

	require.NoError(t, flags.Parse([]string{"--align-how", "pad_and_crop_one_to_match_other"}))
	assert.Equal(t, PolicyPadAndCropOneToMatchOther, policy)
	assert.Error(t, flags.Parse([]string{"--align-how", "stretch"}))
	assert.Equal(t, PolicyPadAndCropOneToMatchOther, policy)
}
