// Package feed turns values into the ordered byte stream consumed by the
// hwaddr accumulator.
//
// The encoding below is convention version 1. Addresses derived from
// compound values (sequences, strings, structs, maps) depend on it: any
// change to how lengths, terminators or field order are written changes
// those addresses, while fixed-width primitives keep their output.
//
//   - integers: fixed-width little-endian; int, uint and uintptr use 8 bytes
//   - bool: one byte, 0 or 1
//   - floats: IEEE-754 bits, little-endian; complex is real then imaginary
//   - strings: raw bytes followed by a 0xFF terminator
//   - slices and arrays: 8-byte little-endian element count, then elements
//   - structs: fields in declaration order
//   - maps: element count, then key/value pairs ordered by encoded key
//   - pointers and interfaces: 0 when nil, otherwise 1 and the value
//   - uuid.UUID: its 16 bytes
package feed

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/google/uuid"
)

// ConventionVersion identifies the encoding documented on the package.
const ConventionVersion = 1

const stringTerminator = 0xFF

// Sink receives the byte chunks a Feeder emits, in order.
type Sink interface {
	io.Writer
	io.ByteWriter
}

// Feeder is implemented by values that can decompose themselves into bytes.
// Feed must be deterministic: the same value always emits the same chunks.
type Feeder interface {
	Feed(s Sink)
}

// Func adapts an ordinary function to a Feeder.
type Func func(s Sink)

// Feed calls f(s).
func (f Func) Feed(s Sink) { f(s) }

// Bytes feeds p as a length-prefixed sequence.
func Bytes(p []byte) Feeder {
	return Func(func(s Sink) { writeBytes(s, p) })
}

// Raw feeds p as is, without a length prefix.
func Raw(p []byte) Feeder {
	return Func(func(s Sink) { _, _ = s.Write(p) })
}

// String feeds str followed by the terminator byte.
func String(str string) Feeder {
	return Func(func(s Sink) { writeString(s, str) })
}

// Bool feeds v as a single byte, 1 for true and 0 for false.
func Bool(v bool) Feeder {
	return Func(func(s Sink) { writeBool(s, v) })
}

// Uint8 feeds v as a single byte.
func Uint8(v uint8) Feeder {
	return Func(func(s Sink) { _ = s.WriteByte(v) })
}

// Uint16 feeds v as 2 little-endian bytes.
func Uint16(v uint16) Feeder {
	return Func(func(s Sink) { writeUint(s, uint64(v), 2) }) //nolint:mnd
}

// Uint32 feeds v as 4 little-endian bytes.
func Uint32(v uint32) Feeder {
	return Func(func(s Sink) { writeUint(s, uint64(v), 4) }) //nolint:mnd
}

// Uint64 feeds v as 8 little-endian bytes.
func Uint64(v uint64) Feeder {
	return Func(func(s Sink) { writeUint(s, v, 8) }) //nolint:mnd
}

// Uint feeds v as 8 bytes regardless of the platform word size.
func Uint(v uint) Feeder { return Uint64(uint64(v)) }

// Int8 feeds the two's complement byte of v.
func Int8(v int8) Feeder { return Uint8(uint8(v)) }

// Int16 feeds v as 2 little-endian two's complement bytes.
func Int16(v int16) Feeder { return Uint16(uint16(v)) }

// Int32 feeds v as 4 little-endian two's complement bytes.
func Int32(v int32) Feeder { return Uint32(uint32(v)) }

// Int64 feeds v as 8 little-endian two's complement bytes.
func Int64(v int64) Feeder { return Uint64(uint64(v)) }

// Int feeds v as 8 bytes regardless of the platform word size.
func Int(v int) Feeder { return Uint64(uint64(v)) }

// Float32 feeds the IEEE-754 bits of v as 4 little-endian bytes.
func Float32(v float32) Feeder { return Uint32(math.Float32bits(v)) }

// Float64 feeds the IEEE-754 bits of v as 8 little-endian bytes.
func Float64(v float64) Feeder { return Uint64(math.Float64bits(v)) }

// UUID feeds the 16 bytes of id.
func UUID(id uuid.UUID) Feeder {
	return Func(func(s Sink) { _, _ = s.Write(id[:]) })
}

// Seq feeds a length-prefixed sequence of elements.
func Seq(elems ...Feeder) Feeder {
	return Func(func(s Sink) {
		writeLen(s, len(elems))
		for _, e := range elems {
			e.Feed(s)
		}
	})
}

// Tuple feeds its members back to back, the way struct fields are written.
func Tuple(members ...Feeder) Feeder {
	return Func(func(s Sink) {
		for _, m := range members {
			m.Feed(s)
		}
	})
}

func writeUint(s Sink, v uint64, width int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = s.Write(buf[:width])
}

func writeLen(s Sink, n int) {
	writeUint(s, uint64(n), 8) //nolint:mnd
}

func writeBool(s Sink, v bool) {
	if v {
		_ = s.WriteByte(1)
		return
	}
	_ = s.WriteByte(0)
}

func writeBytes(s Sink, p []byte) {
	writeLen(s, len(p))
	_, _ = s.Write(p)
}

func writeString(s Sink, str string) {
	_, _ = io.WriteString(s, str)
	_ = s.WriteByte(stringTerminator)
}
