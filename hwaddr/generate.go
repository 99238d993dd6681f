// Package hwaddr derives stable, locally administered unicast MAC addresses
// from arbitrary input. The same input always yields the same address; it
// is not random, not cryptographic, and distinct inputs may collide.
//
// Inputs are turned into bytes by package feed. Addresses of compound
// inputs depend on feed.ConventionVersion: if that encoding changes, so do
// they. Addresses of fixed-width primitives do not.
package hwaddr

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/cocoonstack/cocoon-hwaddr/feed"
	"github.com/cocoonstack/cocoon-hwaddr/types"
)

// Generate streams f into a fresh accumulator and returns the finalized
// address. It never fails.
func Generate(f feed.Feeder) types.HwAddr {
	acc := NewAccumulator()
	f.Feed(sink{acc: acc})
	addr, _ := acc.Finalize() // fresh accumulator, feeders cannot reach Finalize
	return addr
}

// GenerateValue feeds v through feed.Value. Encoding errors are returned
// unchanged.
func GenerateValue(v any) (types.HwAddr, error) {
	acc := NewAccumulator()
	if err := feed.Value(sink{acc: acc}, v); err != nil {
		return types.HwAddr{}, err
	}
	addr, _ := acc.Finalize()
	return addr, nil
}

// FromReader folds everything read from r. Read errors are wrapped.
func FromReader(r io.Reader) (types.HwAddr, error) {
	acc := NewAccumulator()
	if _, err := io.Copy(sink{acc: acc}, r); err != nil {
		return types.HwAddr{}, fmt.Errorf("read input: %w", err)
	}
	addr, _ := acc.Finalize()
	return addr, nil
}

// ForName derives the address of a name, e.g. a VM name.
func ForName(name string) types.HwAddr {
	return Generate(feed.String(name))
}

// ForUUID derives the address of a UUID, e.g. a VM ID.
func ForUUID(id uuid.UUID) types.HwAddr {
	return Generate(feed.UUID(id))
}

// ForInterface derives the address of the index-th NIC of a VM. Different
// indexes of the same VM give different addresses in practice, but that is
// not guaranteed.
func ForInterface(vmID string, index int) types.HwAddr {
	return Generate(feed.Tuple(feed.String(vmID), feed.Int(index)))
}
