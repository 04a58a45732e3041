package sourcemap

import (
	"errors"
	"fmt"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift    = 5
	vlqBase     = 1 << vlqShift
	vlqMask     = vlqBase - 1
	vlqContinue = vlqBase
)

var errTruncated = errors.New("truncated VLQ value")

var base64Index = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		idx[base64Chars[i]] = int8(i)
	}
	return idx
}()

// appendVLQ appends the base64 VLQ encoding of v to b.
func appendVLQ(b []byte, v int) []byte {
	var u uint64
	if v < 0 {
		u = uint64(-v)<<1 | 1
	} else {
		u = uint64(v) << 1
	}
	for {
		digit := u & vlqMask
		u >>= vlqShift
		if u > 0 {
			digit |= vlqContinue
		}
		b = append(b, base64Chars[digit])
		if u == 0 {
			return b
		}
	}
}

// readVLQ decodes one VLQ value starting at s[i] and returns the value and
// the offset just past it.
func readVLQ(s string, i int) (int, int, error) {
	var result uint64
	var shift uint
	for {
		if i >= len(s) {
			return 0, i, errTruncated
		}
		d := base64Index[s[i]]
		if d < 0 {
			return 0, i, fmt.Errorf("invalid base64 character %q at offset %d", s[i], i)
		}
		i++
		result |= uint64(d&vlqMask) << shift
		if d&vlqContinue == 0 {
			break
		}
		shift += vlqShift
		if shift > 60 {
			return 0, i, fmt.Errorf("VLQ value overflows at offset %d", i)
		}
	}
	v := int(result >> 1)
	if result&1 == 1 {
		v = -v
	}
	return v, i, nil
}
