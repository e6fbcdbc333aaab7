package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShiftResult(t *testing.T) {
	r := ShiftResult{ShiftMS: -1230, Confidence: 0.5}
	assert.Equal(t, -1230*time.Millisecond, r.Shift())
	assert.Equal(t, "-1230.0ms (confidence 0.500)", r.String())
}
