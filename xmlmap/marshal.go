package xmlmap

import (
	"bytes"
)

// Marshal returns the document for v.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, opts...).Serialize(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal reads the document in data into the value v points to.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return NewReader(bytes.NewReader(data), opts...).Deserialize(v)
}
