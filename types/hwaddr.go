package types

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// HwAddrLen is the size of an EUI-48 hardware address.
const HwAddrLen = 6

const (
	unicastBit = 0x01
	localBit   = 0x02
)

// Output styles accepted by HwAddr.Format.
const (
	FormatColon = "colon" // 02:00:5e:10:00:01
	FormatDash  = "dash"  // 02-00-5e-10-00-01
	FormatPlain = "plain" // 02005e100001
)

var (
	ErrInvalidHwAddr = errors.New("invalid hardware address")
	ErrUnknownFormat = errors.New("unknown address format")
)

// HwAddr is a 6-byte hardware (MAC) address. It is a value type: copies
// never alias each other.
type HwAddr [HwAddrLen]byte

// ParseHwAddr accepts any notation understood by net.ParseMAC, as long as
// it describes exactly 6 bytes.
func ParseHwAddr(s string) (HwAddr, error) {
	var a HwAddr
	mac, err := net.ParseMAC(strings.TrimSpace(s))
	if err != nil {
		return a, fmt.Errorf("%w: %q: %w", ErrInvalidHwAddr, s, err)
	}
	if len(mac) != HwAddrLen {
		return a, fmt.Errorf("%w: %q has %d bytes, want %d", ErrInvalidHwAddr, s, len(mac), HwAddrLen)
	}
	copy(a[:], mac)
	return a, nil
}

// IsLocal reports whether the locally administered bit is set.
func (a HwAddr) IsLocal() bool { return a[0]&localBit != 0 }

// IsUnicast reports whether the group bit is clear.
func (a HwAddr) IsUnicast() bool { return a[0]&unicastBit == 0 }

// HardwareAddr returns a freshly allocated net.HardwareAddr.
func (a HwAddr) HardwareAddr() net.HardwareAddr {
	return net.HardwareAddr(append([]byte(nil), a[:]...))
}

func (a HwAddr) String() string {
	s, _ := a.Format(FormatColon)
	return s
}

// Format renders the address in one of the FormatXxx styles. An empty
// style means FormatColon.
func (a HwAddr) Format(style string) (string, error) {
	const hexdigits = "0123456789abcdef"
	var sep byte
	switch style {
	case FormatColon, "":
		sep = ':'
	case FormatDash:
		sep = '-'
	case FormatPlain:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, style)
	}
	buf := make([]byte, 0, HwAddrLen*3) //nolint:mnd
	for i, b := range a {
		if i > 0 && sep != 0 {
			buf = append(buf, sep)
		}
		buf = append(buf, hexdigits[b>>4], hexdigits[b&0x0f])
	}
	return string(buf), nil
}

// MarshalText encodes the address in colon notation.
func (a HwAddr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts every notation ParseHwAddr does.
func (a *HwAddr) UnmarshalText(text []byte) error {
	parsed, err := ParseHwAddr(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
