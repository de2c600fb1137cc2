// Package early provides a minimal, non-allocating Printf that can be used
// from the very first line of Kmain onward, long before any heap exists.
// It writes through hal.ActiveTerminal and supports the subset of verbs the
// boot trace and panic paths need.
package early

import "github.com/jameingh/kernel-dev/kernel/hal"

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	padding         = byte(' ')
	trueValue       = []byte("true")
	falseValue      = []byte("false")
)

// Printf writes a formatted string to hal.ActiveTerminal. Supported verbs:
//
//	%s  string or []byte
//	%d  base 10 integer
//	%o  base 8 integer
//	%x  base 16 integer, lower-case, "0x"-prefixed
//	%t  bool
//
// An optional decimal width may precede the verb (e.g. "%4d"); strings and
// base-10 integers are left-padded with spaces, base-8/16 integers with
// zeroes. Printf never allocates.
func Printf(format string, args ...interface{}) {
	var (
		nextCh                       byte
		nextArgIndex                 int
		blockStart, blockEnd, padLen int
		fmtLen                       = len(format)
	)

	for blockEnd < fmtLen {
		nextCh = format[blockEnd]
		if nextCh != '%' {
			blockEnd++
			continue
		}

		if blockStart < blockEnd {
			for i := blockStart; i < blockEnd; i++ {
				hal.ActiveTerminal.WriteByte(format[i])
			}
		}

		padLen = 0
		blockEnd++
	parseFmt:
		for ; blockEnd < fmtLen; blockEnd++ {
			nextCh = format[blockEnd]
			switch {
			case nextCh == '%':
				hal.ActiveTerminal.Write([]byte{'%'})
				break parseFmt
			case nextCh >= '0' && nextCh <= '9':
				padLen = (padLen * 10) + int(nextCh-'0')
				continue
			case nextCh == 'd' || nextCh == 'x' || nextCh == 'o' || nextCh == 's' || nextCh == 't':
				if nextArgIndex >= len(args) {
					hal.ActiveTerminal.Write(errMissingArg)
					break parseFmt
				}

				switch nextCh {
				case 'o':
					fmtInt(args[nextArgIndex], 8, padLen)
				case 'd':
					fmtInt(args[nextArgIndex], 10, padLen)
				case 'x':
					fmtInt(args[nextArgIndex], 16, padLen)
				case 's':
					fmtString(args[nextArgIndex], padLen)
				case 't':
					fmtBool(args[nextArgIndex])
				}

				nextArgIndex++
				break parseFmt
			default:
				hal.ActiveTerminal.Write(errNoVerb)
				break parseFmt
			}
		}
		blockStart, blockEnd = blockEnd+1, blockEnd+1
	}

	if blockStart != blockEnd {
		for i := blockStart; i < blockEnd; i++ {
			hal.ActiveTerminal.WriteByte(format[i])
		}
	}

	for ; nextArgIndex < len(args); nextArgIndex++ {
		hal.ActiveTerminal.Write(errExtraArg)
	}
}

func fmtBool(v interface{}) {
	b, ok := v.(bool)
	if !ok {
		hal.ActiveTerminal.Write(errWrongArgType)
		return
	}
	if b {
		hal.ActiveTerminal.Write(trueValue)
	} else {
		hal.ActiveTerminal.Write(falseValue)
	}
}

func fmtString(v interface{}, padLen int) {
	switch val := v.(type) {
	case string:
		fmtRepeat(padding, padLen-len(val))
		for i := 0; i < len(val); i++ {
			hal.ActiveTerminal.WriteByte(val[i])
		}
	case []byte:
		fmtRepeat(padding, padLen-len(val))
		hal.ActiveTerminal.Write(val)
	default:
		hal.ActiveTerminal.Write(errWrongArgType)
	}
}

func fmtRepeat(ch byte, count int) {
	for i := 0; i < count; i++ {
		hal.ActiveTerminal.WriteByte(ch)
	}
}

// fmtInt prints v (any built-in integer type) in the given base, applying
// padLen of left padding (spaces for base 10, zeroes otherwise).
func fmtInt(v interface{}, base, padLen int) {
	var (
		sval      int64
		uval      uint64
		divider   uint64
		buf       [24]byte
		padCh     byte
		right     int
		negative  bool
	)

	switch base {
	case 8:
		divider, padCh = 8, '0'
	case 10:
		divider, padCh = 10, ' '
	case 16:
		divider, padCh = 16, '0'
	}

	switch val := v.(type) {
	case uint8:
		uval = uint64(val)
	case uint16:
		uval = uint64(val)
	case uint32:
		uval = uint64(val)
	case uint64:
		uval = val
	case uintptr:
		uval = uint64(val)
	case uint:
		uval = uint64(val)
	case int8:
		sval = int64(val)
	case int16:
		sval = int64(val)
	case int32:
		sval = int64(val)
	case int64:
		sval = val
	case int:
		sval = int64(val)
	default:
		hal.ActiveTerminal.Write(errWrongArgType)
		return
	}

	if sval < 0 {
		negative = true
		uval = uint64(-sval)
	} else if sval > 0 {
		uval = uint64(sval)
	}

	for {
		remainder := uval % divider
		if remainder < 10 {
			buf[right] = byte(remainder) + '0'
		} else {
			buf[right] = byte(remainder-10) + 'a'
		}
		right++
		uval /= divider
		if uval == 0 {
			break
		}
	}

	if negative {
		buf[right] = '-'
		right++
	}

	// buf currently holds the digits least-significant first; pad then reverse.
	for right < padLen {
		buf[right] = padCh
		right++
	}

	if base == 16 {
		hal.ActiveTerminal.Write([]byte{'0', 'x'})
	}
	for i := right - 1; i >= 0; i-- {
		hal.ActiveTerminal.WriteByte(buf[i])
	}
}
