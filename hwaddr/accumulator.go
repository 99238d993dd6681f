package hwaddr

import (
	"errors"

	"github.com/cocoonstack/cocoon-hwaddr/feed"
	"github.com/cocoonstack/cocoon-hwaddr/types"
)

const (
	// lowBitsMask clears the group and locally administered bits.
	lowBitsMask = 0b1111_1100
	// localUnicast marks a locally administered, unicast address.
	localUnicast = 0b0000_0010
)

// ErrFinalized is returned by every Accumulator method once Finalize has run.
var ErrFinalized = errors.New("accumulator already finalized")

// compile-time interface check.
var _ feed.Sink = (*Accumulator)(nil)

// Accumulator folds a byte stream into a 6-byte buffer: each byte is XORed
// into the slot under a cursor that advances and wraps every 6 bytes.
// The fold is not collision resistant. Two streams whose bytes XOR to the
// same value at each of the six positions produce the same address.
//
// An Accumulator is single-use and not safe for concurrent use.
type Accumulator struct {
	buf  types.HwAddr
	pos  int
	done bool
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// WriteByte XORs b into the current slot and advances the cursor.
func (a *Accumulator) WriteByte(b byte) error {
	if a.done {
		return ErrFinalized
	}
	a.ingest(b)
	return nil
}

// Write ingests p in order. It never returns a short write unless the
// accumulator is finalized.
func (a *Accumulator) Write(p []byte) (int, error) {
	if a.done {
		return 0, ErrFinalized
	}
	for _, b := range p {
		a.ingest(b)
	}
	return len(p), nil
}

// Finalize sets the low two bits of the first byte to 0b10 (locally
// administered, unicast) and returns the address. The accumulator cannot
// be used afterwards.
func (a *Accumulator) Finalize() (types.HwAddr, error) {
	if a.done {
		return types.HwAddr{}, ErrFinalized
	}
	a.done = true
	addr := a.buf
	addr[0] = addr[0]&lowBitsMask | localUnicast
	return addr, nil
}

func (a *Accumulator) ingest(b byte) {
	a.buf[a.pos] ^= b
	a.pos++
	if a.pos == len(a.buf) {
		a.pos = 0
	}
}

// sink hides the accumulator from feeders so they can write but never
// finalize it.
type sink struct {
	acc *Accumulator
}

func (s sink) Write(p []byte) (int, error) { return s.acc.Write(p) }

func (s sink) WriteByte(b byte) error { return s.acc.WriteByte(b) }
