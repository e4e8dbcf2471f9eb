package fix

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// timestampValue coerces a ts field to a number.
// Numbers compare as-is, numeric strings are parsed, booleans count as 1 and 0.
// Absent and null map to ErrMissingTimestamp; everything else to ErrInvalidTimestamp.
func timestampValue(ts gjson.Result) (float64, error) {
	if !ts.Exists() {
		return 0, ErrMissingTimestamp
	}

	switch ts.Type {
	case gjson.Null:
		return 0, ErrMissingTimestamp
	case gjson.Number:
		return ts.Num, nil
	case gjson.True:
		return 1, nil
	case gjson.False:
		return 0, nil
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(ts.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts.Str)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidTimestamp, ts.Raw)
	}
}
