package hetero

import (
	"math"
	"strconv"
	"strings"

	"github.com/rohankatakam/hetgraph/internal/errors"
)

// IDKey is the distinguished identifier attribute of every entity record
const IDKey = "id"

// NodeRecord is one entity's property mapping as returned by the source
type NodeRecord map[string]any

// EdgeRecord is one relationship between two entities referenced by external id
type EdgeRecord struct {
	SrcID any
	DstID any
	Rel   RelationType
}

// CanonicalID converts an external id into the registry key.
// Strings are kept verbatim, integral numbers are rendered in base 10.
func CanonicalID(v any) (string, error) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", errors.ValidationErrorf("empty id")
		}
		return id, nil
	case int:
		return strconv.FormatInt(int64(id), 10), nil
	case int8:
		return strconv.FormatInt(int64(id), 10), nil
	case int16:
		return strconv.FormatInt(int64(id), 10), nil
	case int32:
		return strconv.FormatInt(int64(id), 10), nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	case uint:
		return strconv.FormatUint(uint64(id), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(id), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(id), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(id), 10), nil
	case uint64:
		return strconv.FormatUint(id, 10), nil
	case float32:
		return CanonicalID(float64(id))
	case float64:
		if id != math.Trunc(id) || math.IsInf(id, 0) {
			return "", errors.ValidationErrorf("non-integral id %v", id)
		}
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case nil:
		return "", errors.ValidationErrorf("missing id")
	default:
		return "", errors.ValidationErrorf("unsupported id type %T", v)
	}
}

// featureValue converts one attribute value into a matrix cell
func featureValue(attr string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, errors.ValidationErrorf("attribute %s: non-numeric value %q", attr, x)
		}
		return f, nil
	case nil:
		return 0, errors.ValidationErrorf("attribute %s: null value", attr)
	default:
		return 0, errors.ValidationErrorf("attribute %s: unsupported type %T", attr, v)
	}
}
