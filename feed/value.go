package feed

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/google/uuid"
)

// MaxDepth bounds how deeply Value descends into nested values. Cyclic
// pointer structures hit this limit instead of recursing forever.
const MaxDepth = 64

var (
	ErrUnsupported = errors.New("unsupported kind")
	ErrTooDeep     = errors.New("value nested too deeply")
)

var (
	feederType = reflect.TypeFor[Feeder]()
	uuidType   = reflect.TypeFor[uuid.UUID]()
)

// Value feeds v into s using reflection and the package convention.
//
// Values implementing Feeder encode themselves, except when they sit in
// unexported struct fields, which are always encoded structurally. A
// pointer passed as v is encoded like any other pointer, so Value(s, &x)
// and Value(s, x) differ by the leading non-nil marker.
//
// Channels, functions and unsafe pointers yield ErrUnsupported. The first
// write error reported by s is returned as is. Bytes may already have
// been written to s when an error is returned.
func Value(s Sink, v any) error {
	es := &errSink{Sink: s}
	if v == nil {
		_ = es.WriteByte(0)
		return es.err
	}
	// addressable copy, so pointer-receiver Feeders are found on fields too
	rv := reflect.New(reflect.TypeOf(v)).Elem()
	rv.Set(reflect.ValueOf(v))
	if err := feedValue(es, rv, 0); err != nil {
		return err
	}
	return es.err
}

func feedValue(s Sink, v reflect.Value, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: deeper than %d at %s", ErrTooDeep, MaxDepth, v.Type())
	}
	t := v.Type()
	if t == uuidType {
		for i := range v.Len() {
			_ = s.WriteByte(byte(v.Index(i).Uint()))
		}
		return nil
	}
	if f, ok := asFeeder(v); ok {
		f.Feed(s)
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		writeBool(s, v.Bool())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		writeUint(s, uint64(v.Int()), intWidth(t)) //nolint:gosec
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Uintptr:
		writeUint(s, v.Uint(), intWidth(t))
	case reflect.Float32:
		writeUint(s, uint64(math.Float32bits(float32(v.Float()))), 4) //nolint:mnd
	case reflect.Float64:
		writeUint(s, math.Float64bits(v.Float()), 8) //nolint:mnd
	case reflect.Complex64:
		c := v.Complex()
		writeUint(s, uint64(math.Float32bits(float32(real(c)))), 4) //nolint:mnd
		writeUint(s, uint64(math.Float32bits(float32(imag(c)))), 4) //nolint:mnd
	case reflect.Complex128:
		c := v.Complex()
		writeUint(s, math.Float64bits(real(c)), 8) //nolint:mnd
		writeUint(s, math.Float64bits(imag(c)), 8) //nolint:mnd
	case reflect.String:
		writeString(s, v.String())
	case reflect.Slice, reflect.Array:
		return feedSeq(s, v, depth)
	case reflect.Struct:
		for i := range v.NumField() {
			if err := feedValue(s, v.Field(i), depth+1); err != nil {
				return err
			}
		}
	case reflect.Map:
		return feedMap(s, v, depth)
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			_ = s.WriteByte(0)
			return nil
		}
		_ = s.WriteByte(1)
		return feedValue(s, addressable(v.Elem()), depth+1)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
	return nil
}

// asFeeder returns v as a Feeder when its own type, or a pointer to it,
// implements Feeder. Pointers and interfaces are left to feedValue so
// they always carry the nil marker.
func asFeeder(v reflect.Value) (Feeder, bool) {
	if k := v.Kind(); k == reflect.Pointer || k == reflect.Interface {
		return nil, false
	}
	if v.Type().Implements(feederType) && v.CanInterface() {
		if v.Kind() == reflect.Func && v.IsNil() {
			return nil, false
		}
		return v.Interface().(Feeder), true //nolint:forcetypeassert
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(feederType) && v.Addr().CanInterface() {
		return v.Addr().Interface().(Feeder), true //nolint:forcetypeassert
	}
	return nil, false
}

func feedSeq(s Sink, v reflect.Value, depth int) error {
	n := v.Len()
	writeLen(s, n)
	if elem := v.Type().Elem(); elem.Kind() == reflect.Uint8 && !feeds(elem) {
		if v.Kind() == reflect.Slice && v.CanInterface() {
			_, _ = s.Write(v.Bytes())
			return nil
		}
		for i := range n {
			_ = s.WriteByte(byte(v.Index(i).Uint()))
		}
		return nil
	}
	for i := range n {
		if err := feedValue(s, v.Index(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// feedMap orders entries by the encoding of their keys, then of their
// values, so the result does not depend on map iteration order. Entries
// that tie on both encode to the same bytes, so their relative order
// cannot show in the output.
func feedMap(s Sink, v reflect.Value, depth int) error {
	type entry struct {
		key, val []byte
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		var kb, vb bytes.Buffer
		if err := feedValue(&kb, addressable(iter.Key()), depth+1); err != nil {
			return err
		}
		if err := feedValue(&vb, addressable(iter.Value()), depth+1); err != nil {
			return err
		}
		entries = append(entries, entry{key: kb.Bytes(), val: vb.Bytes()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := bytes.Compare(a.key, b.key); c != 0 {
			return c
		}
		return bytes.Compare(a.val, b.val)
	})

	writeLen(s, len(entries))
	for _, e := range entries {
		_, _ = s.Write(e.key)
		_, _ = s.Write(e.val)
	}
	return nil
}

// addressable returns an addressable copy of v, so pointer-receiver
// Feeders on map entries and interface contents are found. Values read
// through unexported fields are returned as is.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || !v.CanInterface() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// feeds reports whether values of t, or pointers to them, implement Feeder.
func feeds(t reflect.Type) bool {
	return t.Implements(feederType) || reflect.PointerTo(t).Implements(feederType)
}

func intWidth(t reflect.Type) int {
	switch t.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return 8 //nolint:mnd
	default:
		return int(t.Size())
	}
}

// errSink remembers the first error returned by the wrapped sink and
// drops every write after it.
type errSink struct {
	Sink
	err error
}

func (e *errSink) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.Sink.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func (e *errSink) WriteByte(b byte) error {
	if e.err != nil {
		return e.err
	}
	if err := e.Sink.WriteByte(b); err != nil {
		e.err = err
	}
	return e.err
}
