package report

import (
	"errors"
	"fmt"
	"math"
)

// #region errors

var (
	// ErrInvalidInput is returned when a batch is not an ordered sequence of tokens.
	ErrInvalidInput = errors.New("invalid input: batch must be an ordered sequence")

	// ErrInvalidIntegrationLevel is returned when an integration level falls outside [0,1].
	ErrInvalidIntegrationLevel = errors.New("invalid integration level: must be within [0,1]")
)

// #endregion errors

// #region validate-level

// ValidateIntegrationLevel rejects NaN and values outside [0,1].
func ValidateIntegrationLevel(level float64) error {
	if math.IsNaN(level) || level < 0 || level > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidIntegrationLevel, level)
	}
	return nil
}

// #endregion validate-level

// #region parse-batch

// ParseBatch converts a loosely typed value (decoded JSON, YAML or structpb)
// into a Batch. nil is an empty batch. Lists of scalars are stringified in
// order; anything else is ErrInvalidInput.
func ParseBatch(v any) (Batch, error) {
	switch t := v.(type) {
	case nil:
		return Batch{}, nil
	case Batch:
		return t, nil
	case []string:
		return Batch(t), nil
	case []any:
		out := make(Batch, 0, len(t))
		for i, el := range t {
			switch el.(type) {
			case string, bool, int, int32, int64, uint, uint32, uint64, float32, float64:
				out = append(out, fmt.Sprint(el))
			default:
				return nil, fmt.Errorf("%w: element %d has type %T", ErrInvalidInput, i, el)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidInput, v)
	}
}

// #endregion parse-batch
