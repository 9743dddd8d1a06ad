package scalar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scan converts a value returned by a database/sql driver into a value of
// kind k. A nil source yields Null.
func (k Kind) Scan(src any) (Value, error) {
	if src == nil {
		return Null, nil
	}
	if b, ok := src.([]byte); ok {
		if k == UUID && len(b) == 16 {
			u, err := uuid.FromBytes(b)
			if err != nil {
				return Null, err
			}
			return UUIDOf(u), nil
		}
		src = string(b)
	}
	switch k {
	case SmallInt, Int, BigInt:
		n, err := scanInt(src)
		if err != nil {
			return Null, fmt.Errorf("scalar: scan %s: %w", k, err)
		}
		switch {
		case k == SmallInt && (n < math.MinInt16 || n > math.MaxInt16):
			return Null, fmt.Errorf("scalar: scan %s: %d out of range", k, n)
		case k == Int && (n < math.MinInt32 || n > math.MaxInt32):
			return Null, fmt.Errorf("scalar: scan %s: %d out of range", k, n)
		}
		return Value{kind: k, i: n}, nil
	case Float, Double:
		f, err := scanFloat(src)
		if err != nil {
			return Null, fmt.Errorf("scalar: scan %s: %w", k, err)
		}
		if k == Float {
			return Float32(float32(f)), nil
		}
		return Float64(f), nil
	case String:
		switch v := src.(type) {
		case string:
			return Text(v), nil
		case time.Time:
			return Text(v.Format(TimestampLayout)), nil
		default:
			return Text(fmt.Sprint(v)), nil
		}
	case ID:
		switch v := src.(type) {
		case string:
			return IDOf(v), nil
		case int64:
			return IDOf(strconv.FormatInt(v, 10)), nil
		default:
			return IDOf(fmt.Sprint(v)), nil
		}
	case Boolean:
		b, err := scanBool(src)
		if err != nil {
			return Null, fmt.Errorf("scalar: scan %s: %w", k, err)
		}
		return Bool(b), nil
	case Timestamp, Date:
		var t time.Time
		switch v := src.(type) {
		case time.Time:
			t = v
		case string:
			var ok bool
			if t, ok = parseTimestamp(v); !ok {
				return Null, fmt.Errorf("scalar: scan %s: invalid time %q", k, v)
			}
		case int64:
			t = time.Unix(v, 0).UTC()
		default:
			return Null, fmt.Errorf("scalar: scan %s: unsupported type %T", k, src)
		}
		if k == Date {
			return CalendarDate(t), nil
		}
		return Time(t), nil
	case UUID:
		s, ok := src.(string)
		if !ok {
			return Null, fmt.Errorf("scalar: scan %s: unsupported type %T", k, src)
		}
		u, err := uuid.Parse(s)
		if err != nil {
			return Null, fmt.Errorf("scalar: scan %s: %w", k, err)
		}
		return UUIDOf(u), nil
	}
	return Null, fmt.Errorf("scalar: scan: invalid kind %s", k)
}

func scanInt(src any) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("non-integral %v", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported type %T", src)
}

func scanFloat(src any) (float64, error) {
	switch v := src.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("unsupported type %T", src)
}

func scanBool(src any) (bool, error) {
	switch v := src.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case string:
		switch strings.ToLower(v) {
		case "t", "true", "1", "y", "yes":
			return true, nil
		case "f", "false", "0", "n", "no":
			return false, nil
		}
		return false, fmt.Errorf("invalid boolean %q", v)
	}
	return false, fmt.Errorf("unsupported type %T", src)
}
