package frame

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

// normalize converts Go numeric kinds to the two canonical cell types (int64 and float64)
// so that values built from literals compare and group the same way as parsed ones.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return normalize(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return float64(x)
		}
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case int64, float64:
		return rankNumber
	case string:
		return rankString
	default:
		return rankOther
	}
}

// Compare orders two cell values. nil sorts first, then booleans, numbers and strings.
// Values of any other type are ordered by their fmt rendering.
func Compare(a, b any) int {
	a, b = normalize(a), normalize(b)
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankNil:
		return 0
	case rankBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case rankNumber:
		ai, aInt := a.(int64)
		bi, bInt := b.(int64)
		if aInt && bInt {
			return cmp.Compare(ai, bi)
		}
		af, _ := toFloat64(a)
		bf, _ := toFloat64(b)
		return cmp.Compare(af, bf)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func toFloat64(v any) (float64, bool) {
	switch x := normalize(v).(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	x, ok := normalize(v).(int64)
	return x, ok
}

// ParseValue converts a text cell into its typed form: empty text is nil, then int64,
// float64 and the literals "true"/"false" are tried before falling back to the string.
func ParseValue(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// FormatValue renders a cell the way WriteCSV and the CLI print it.
func FormatValue(v any) string {
	switch x := normalize(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// groupToken is a type-qualified rendering used to bucket equal keys together. Numbers
// share one token space, with whole floats folded onto integers, so keys that Compare
// reports as equal land in the same group.
func groupToken(v any) string {
	v = normalize(v)
	switch x := v.(type) {
	case int64:
		return "num:" + strconv.FormatInt(x, 10)
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return "num:" + strconv.FormatInt(int64(x), 10)
		}
		return "num:" + strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprintf("%T:%s", v, FormatValue(v))
}
