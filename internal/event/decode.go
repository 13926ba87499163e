package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. Events published on the memory bus
// carry T or *T directly. Raw JSON and generic maps read back from the
// dead-letter log are decoded.
func DecodePayload[T any](input interface{}) (T, error) {
	var out T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return out, fmt.Errorf("%s: nil %T", ErrMsgPayloadDecode, v)
		}
		return *v, nil
	case json.RawMessage:
		return out, decodeJSON(v, &out)
	case []byte:
		return out, decodeJSON(v, &out)
	}
	data, err := json.Marshal(input)
	if err != nil {
		return out, fmt.Errorf("%s: %w", ErrMsgPayloadDecode, err)
	}
	return out, decodeJSON(data, &out)
}

func decodeJSON(data []byte, out interface{}) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgPayloadDecode, err)
	}
	return nil
}
