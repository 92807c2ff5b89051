package dictionary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/fulldump/flatfiledb/flatfile"
)

// KeyType selects how key bytes are compared and how they are rendered on
// the HTTP surface. The stores themselves never interpret keys, they only
// call the comparator picked here.
type KeyType int

const (
	KeyTypeNumericSigned KeyType = iota
	KeyTypeNumericUnsigned
	KeyTypeString // NUL-terminated
	KeyTypeBytes
)

var keyTypeNames = map[KeyType]string{
	KeyTypeNumericSigned:   "numeric_signed",
	KeyTypeNumericUnsigned: "numeric_unsigned",
	KeyTypeString:          "string",
	KeyTypeBytes:           "bytes",
}

func (t KeyType) String() string {
	name, exist := keyTypeNames[t]
	if !exist {
		return "unknown"
	}
	return name
}

func ParseKeyType(name string) (KeyType, error) {
	for t, n := range keyTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown key type '%s'", name)
}

// ComparatorFor returns the comparator capability for a key type. Numeric
// keys are little-endian of whatever width the store was created with.
func ComparatorFor(t KeyType) flatfile.Comparator {
	switch t {
	case KeyTypeNumericSigned:
		return compareSigned
	case KeyTypeNumericUnsigned:
		return compareUnsigned
	case KeyTypeString:
		return compareString
	default:
		return bytes.Compare
	}
}

// compareUnsigned compares little-endian unsigned integers of equal width:
// most significant byte first, which is the last one.
func compareUnsigned(a, b []byte) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// compareSigned is compareUnsigned plus two's complement sign handling: a
// negative number is smaller than any non-negative one, and within one sign
// the unsigned byte order already matches the numeric order.
func compareSigned(a, b []byte) int {
	signA := a[len(a)-1] & 0x80
	signB := b[len(b)-1] & 0x80
	if signA != signB {
		if signA != 0 {
			return -1
		}
		return 1
	}
	return compareUnsigned(a, b)
}

func compareString(a, b []byte) int {
	return bytes.Compare(cutAtNul(a), cutAtNul(b))
}

func cutAtNul(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

// EncodeKey renders the textual form of a key into exactly size bytes.
func EncodeKey(t KeyType, size int, text string) ([]byte, error) {
	switch t {
	case KeyTypeNumericSigned:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("key '%s' is not a signed number: %w", text, err)
		}
		return encodeInt(uint64(n), size, true, n < 0)
	case KeyTypeNumericUnsigned:
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("key '%s' is not an unsigned number: %w", text, err)
		}
		return encodeInt(n, size, false, false)
	default:
		return padBytes([]byte(text), size)
	}
}

// DecodeKey is the inverse of EncodeKey.
func DecodeKey(t KeyType, key []byte) string {
	switch t {
	case KeyTypeNumericSigned:
		return strconv.FormatInt(decodeSigned(key), 10)
	case KeyTypeNumericUnsigned:
		return strconv.FormatUint(decodeUnsigned(key), 10)
	default:
		return string(cutAtNul(key))
	}
}

// EncodeValue NUL-pads the textual value to exactly size bytes.
func EncodeValue(size int, text string) ([]byte, error) {
	return padBytes([]byte(text), size)
}

func DecodeValue(value []byte) string {
	return string(cutAtNul(value))
}

func encodeInt(n uint64, size int, signed, negative bool) ([]byte, error) {
	full := make([]byte, 8)
	binary.LittleEndian.PutUint64(full, n)

	if size >= 8 {
		padded := make([]byte, size)
		copy(padded, full)
		if negative {
			// Sign-extend into the extra bytes.
			for i := 8; i < size; i++ {
				padded[i] = 0xff
			}
		}
		return padded, nil
	}

	// Verify the value survives the truncation to size bytes.
	fill := byte(0)
	if negative {
		fill = 0xff
	}
	for i := size; i < 8; i++ {
		if full[i] != fill {
			return nil, fmt.Errorf("number does not fit in %d bytes", size)
		}
	}
	// A signed key also needs the sign bit of the last kept byte to agree
	// with the sign, otherwise decoding flips the number.
	if signed && negative && full[size-1]&0x80 == 0 {
		return nil, fmt.Errorf("number does not fit in %d bytes", size)
	}
	if signed && !negative && full[size-1]&0x80 != 0 {
		return nil, fmt.Errorf("number does not fit in %d bytes", size)
	}

	return full[:size:size], nil
}

func decodeUnsigned(key []byte) uint64 {
	n := uint64(0)
	for i := len(key) - 1; i >= 0; i-- {
		n = n<<8 | uint64(key[i])
	}
	return n
}

func decodeSigned(key []byte) int64 {
	n := decodeUnsigned(key)
	bits := uint(len(key)) * 8
	if bits < 64 && key[len(key)-1]&0x80 != 0 {
		// Sign-extend.
		n |= ^uint64(0) << bits
	}
	return int64(n)
}

func padBytes(b []byte, size int) ([]byte, error) {
	if len(b) > size {
		return nil, fmt.Errorf("%d bytes do not fit in %d", len(b), size)
	}
	padded := make([]byte, size)
	copy(padded, b)
	return padded, nil
}
