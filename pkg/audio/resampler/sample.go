package resampler

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

// SampleFromBytes decodes one sample of the given format into [-1, 1].
func SampleFromBytes(f types.PCMFormat, p []byte) float64 {
	switch f {
	case types.PCMFormatU8:
		return (float64(p[0]) - 128) / 128
	case types.PCMFormatS16LE:
		return float64(int16(binary.LittleEndian.Uint16(p))) / 32768
	case types.PCMFormatS16BE:
		return float64(int16(binary.BigEndian.Uint16(p))) / 32768
	case types.PCMFormatS24LE:
		return float64(signExtend24(uint32(p[0])|uint32(p[1])<<8|uint32(p[2])<<16)) / 8388608
	case types.PCMFormatS24BE:
		return float64(signExtend24(uint32(p[2])|uint32(p[1])<<8|uint32(p[0])<<16)) / 8388608
	case types.PCMFormatS32LE:
		return float64(int32(binary.LittleEndian.Uint32(p))) / 2147483648
	case types.PCMFormatS32BE:
		return float64(int32(binary.BigEndian.Uint32(p))) / 2147483648
	case types.PCMFormatS64LE:
		return float64(int64(binary.LittleEndian.Uint64(p))) / 9223372036854775808
	case types.PCMFormatS64BE:
		return float64(int64(binary.BigEndian.Uint64(p))) / 9223372036854775808
	case types.PCMFormatFloat32LE:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
	case types.PCMFormatFloat32BE:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(p)))
	case types.PCMFormatFloat64LE:
		return math.Float64frombits(binary.LittleEndian.Uint64(p))
	case types.PCMFormatFloat64BE:
		return math.Float64frombits(binary.BigEndian.Uint64(p))
	default:
		panic(fmt.Sprintf("unknown format: %v", f))
	}
}

func signExtend24(v uint32) int32 {
	if v&0x800000 != 0 {
		v |= 0xff000000
	}
	return int32(v)
}

// clampInt converts v from [-1, 1] to the integer range of the given
// bit depth, saturating at the edges.
func clampInt(v float64, bits uint) int64 {
	maxV := int64(uint64(1)<<(bits-1) - 1)
	minV := -maxV - 1
	x := math.Round(v * math.Ldexp(1, int(bits)-1))
	switch {
	case x >= float64(maxV):
		return maxV
	case x <= float64(minV):
		return minV
	}
	return int64(x)
}

// SampleToBytes encodes v into p using the given format. Integer
// formats saturate instead of wrapping around.
func SampleToBytes(f types.PCMFormat, p []byte, v float64) {
	switch f {
	case types.PCMFormatU8:
		p[0] = byte(clampInt(v, 8) + 128)
	case types.PCMFormatS16LE:
		binary.LittleEndian.PutUint16(p, uint16(int16(clampInt(v, 16))))
	case types.PCMFormatS16BE:
		binary.BigEndian.PutUint16(p, uint16(int16(clampInt(v, 16))))
	case types.PCMFormatS24LE:
		val := int32(clampInt(v, 24))
		p[0] = byte(val)
		p[1] = byte(val >> 8)
		p[2] = byte(val >> 16)
	case types.PCMFormatS24BE:
		val := int32(clampInt(v, 24))
		p[0] = byte(val >> 16)
		p[1] = byte(val >> 8)
		p[2] = byte(val)
	case types.PCMFormatS32LE:
		binary.LittleEndian.PutUint32(p, uint32(int32(clampInt(v, 32))))
	case types.PCMFormatS32BE:
		binary.BigEndian.PutUint32(p, uint32(int32(clampInt(v, 32))))
	case types.PCMFormatS64LE:
		binary.LittleEndian.PutUint64(p, uint64(clampInt(v, 64)))
	case types.PCMFormatS64BE:
		binary.BigEndian.PutUint64(p, uint64(clampInt(v, 64)))
	case types.PCMFormatFloat32LE:
		binary.LittleEndian.PutUint32(p, math.Float32bits(float32(v)))
	case types.PCMFormatFloat32BE:
		binary.BigEndian.PutUint32(p, math.Float32bits(float32(v)))
	case types.PCMFormatFloat64LE:
		binary.LittleEndian.PutUint64(p, math.Float64bits(v))
	case types.PCMFormatFloat64BE:
		binary.BigEndian.PutUint64(p, math.Float64bits(v))
	default:
		panic(fmt.Sprintf("unknown format: %v", f))
	}
}
