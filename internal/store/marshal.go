package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/arbor/internal/ir"
)

// marshalTrace converts executed node labels to canonical JSON TEXT.
func marshalTrace(trace []string) (string, error) {
	arr := make(ir.IRArray, len(trace))
	for i, label := range trace {
		arr[i] = ir.IRString(label)
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal trace: %w", err)
	}
	return string(data), nil
}

// unmarshalTrace parses a stored trace. Empty text yields an empty slice.
func unmarshalTrace(data string) ([]string, error) {
	trace := []string{}
	if data == "" || data == "[]" {
		return trace, nil
	}
	if err := json.Unmarshal([]byte(data), &trace); err != nil {
		return nil, fmt.Errorf("unmarshal trace: %w", err)
	}
	return trace, nil
}
