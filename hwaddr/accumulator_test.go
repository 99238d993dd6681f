package hwaddr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocoonstack/cocoon-hwaddr/types"
)

func finalize(t *testing.T, a *Accumulator) types.HwAddr {
	t.Helper()
	addr, err := a.Finalize()
	require.NoError(t, err)
	return addr
}

func TestAccumulator_Empty(t *testing.T) {
	addr := finalize(t, NewAccumulator())
	assert.Equal(t, types.HwAddr{0b10, 0, 0, 0, 0, 0}, addr)
}

func TestAccumulator_SingleByte(t *testing.T) {
	a := NewAccumulator()
	require.NoError(t, a.WriteByte(23))
	// 0x17 with the low two bits forced to 0b10
	assert.Equal(t, types.HwAddr{0x16, 0, 0, 0, 0, 0}, finalize(t, a))
}

func TestAccumulator_XORsIntoCursorSlot(t *testing.T) {
	a := NewAccumulator()
	_, err := a.Write([]byte{0xf0, 0x11, 0x22, 0x33, 0x44, 0x55})
	require.NoError(t, err)
	assert.Equal(t, types.HwAddr{0xf2, 0x11, 0x22, 0x33, 0x44, 0x55}, finalize(t, a))
}

func TestAccumulator_CursorWraps(t *testing.T) {
	a := NewAccumulator()
	_, err := a.Write([]byte{0, 0, 0, 0, 0, 0, 0x40, 0x0f})
	require.NoError(t, err)
	assert.Equal(t, types.HwAddr{0x42, 0x0f, 0, 0, 0, 0}, finalize(t, a))
}

func TestAccumulator_RepeatedBlockCancels(t *testing.T) {
	block := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}
	a := NewAccumulator()
	_, err := a.Write(block)
	require.NoError(t, err)
	_, err = a.Write(block)
	require.NoError(t, err)
	assert.Equal(t, types.HwAddr{}, a.buf)
	assert.Equal(t, 0, a.pos)
	assert.Equal(t, finalize(t, NewAccumulator()), finalize(t, a))
}

func TestAccumulator_OrderMatters(t *testing.T) {
	a, b := NewAccumulator(), NewAccumulator()
	_, _ = a.Write([]byte{0, 1})
	_, _ = b.Write([]byte{1, 0})
	assert.NotEqual(t, finalize(t, a), finalize(t, b))
}

func TestAccumulator_WriteEqualsWriteByte(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	whole, single := NewAccumulator(), NewAccumulator()

	n, err := whole.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	for _, b := range data {
		require.NoError(t, single.WriteByte(b))
	}
	assert.Equal(t, finalize(t, whole), finalize(t, single))
}

func TestAccumulator_ChunkingIrrelevant(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	whole, chunked := NewAccumulator(), NewAccumulator()
	_, _ = whole.Write(data)
	_, _ = chunked.Write(data[:4])
	_, _ = chunked.Write(nil)
	_, _ = chunked.Write(data[4:9])
	_, _ = chunked.Write(data[9:])
	assert.Equal(t, finalize(t, whole), finalize(t, chunked))
}

func TestAccumulator_SingleUse(t *testing.T) {
	a := NewAccumulator()
	_ = a.WriteByte(7)
	first := finalize(t, a)

	assert.ErrorIs(t, a.WriteByte(1), ErrFinalized)
	n, err := a.Write([]byte{1, 2})
	assert.Zero(t, n)
	assert.True(t, errors.Is(err, ErrFinalized))
	_, err = a.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)

	// writes after finalize must not leak into the returned address
	assert.Equal(t, types.HwAddr{0x06, 0, 0, 0, 0, 0}, first)
}

func TestAccumulator_FinalizeKeepsOtherBytes(t *testing.T) {
	a := NewAccumulator()
	_, _ = a.Write([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	assert.Equal(t, types.HwAddr{0xfe, 0xff, 0xff, 0xff, 0xff, 0xff}, finalize(t, a))
}
