package featurestore

import (
	"bytes"
	"encoding/json"
	stderrors "errors"

	"github.com/rohankatakam/hetgraph/internal/errors"
)

// encodeValue serializes a value for byte-oriented backings. Values JSON
// cannot carry as-is (NaN, infinities) are coerced and written in the
// Array form, which Coerce reads back.
func encodeValue(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err == nil {
		return data, nil
	}
	var unsupported *json.UnsupportedValueError
	if stderrors.As(err, &unsupported) {
		if arr, cerr := Coerce(value); cerr == nil {
			if data, err = json.Marshal(arr); err == nil {
				return data, nil
			}
		}
	}
	return nil, errors.Wrap(err, errors.ErrorTypeCoercion, errors.SeverityHigh,
		"feature value is not serializable").WithContext("key", key)
}

// decodeValue keeps numbers as json.Number so large integers survive
func decodeValue(key string, data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.DatabaseErrorf(err, "corrupt feature value for key %s", key)
	}
	return v, nil
}
