package format

import (
	"bytes"
	"encoding/json"
)

// MarshalTagged encodes the object v with the member key: tag inserted
// first.  It is used to encode internally tagged unions.
func MarshalTagged(key, tag string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	k, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	t, err := json.Marshal(tag)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(t)
	body = bytes.TrimSpace(body)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// Tag decodes the string member key of the object d.
func Tag(d []byte, key string) (string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(d, &obj); err != nil {
		return "", err
	}
	raw, ok := obj[key]
	if !ok {
		return "", nil
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", err
	}
	return tag, nil
}

// Has reports whether the object d has a member key.
func Has(d []byte, key string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(d, &obj); err != nil {
		return false
	}
	_, ok := obj[key]
	return ok
}
