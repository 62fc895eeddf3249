package bytes

import "strconv"

var units = [...]string{"B", "KB", "MB", "GB", "TB"}

// FmtMem renders a byte count as its two most significant binary units, e.g. "10MB 512KB".
func FmtMem(bytes uint64) string {
	unit := 0
	for unit < len(units)-1 && bytes >= uint64(1)<<(10*(unit+1)) {
		unit++
	}
	if unit == 0 {
		return strconv.FormatUint(bytes, 10) + units[0]
	}

	whole := bytes >> (10 * unit)
	rem := (bytes >> (10 * (unit - 1))) & 1023
	return strconv.FormatUint(whole, 10) + units[unit] + " " + strconv.FormatUint(rem, 10) + units[unit-1]
}

// FmtThreshold is FmtMem with an explicit marker for a zero threshold.
func FmtThreshold(bytes uint64) string {
	if bytes == 0 {
		return "0B (always)"
	}
	return FmtMem(bytes)
}
