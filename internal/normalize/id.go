package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	errMissingID = errors.New("missing id")
	errEmptyID   = errors.New("empty id")
)

// FormatID converts an object id to its string form. The rule is fixed and
// locale independent: strings as-is, integers in base 10, floats as the
// shortest decimal that round-trips (no exponent for integral values below
// 1e21), json.Number verbatim, and fmt.Stringer through String.
func FormatID(id any) (string, error) {
	switch v := id.(type) {
	case nil:
		return "", errMissingID
	case string:
		return nonEmpty(v)
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case json.Number:
		return nonEmpty(v.String())
	case fmt.Stringer:
		return nonEmpty(v.String())
	default:
		return "", fmt.Errorf("unsupported id type %T", id)
	}
}

func nonEmpty(s string) (string, error) {
	if s == "" {
		return "", errEmptyID
	}

	return s, nil
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("id %v is not a finite number", f)
	}

	if f == 0 {
		return "0", nil
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bits), nil
	}

	return strconv.FormatFloat(f, 'e', -1, bits), nil
}
