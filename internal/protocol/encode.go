package protocol

import (
	"bytes"
	"encoding/json"
)

// Message is implemented by every client and server variant.
type Message interface {
	Type() MessageType
}

// Encode renders msg in its wire form. Validating the result in the
// matching direction yields a value equal to msg.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// marshalTagged writes body as a JSON object with the discriminant first.
func marshalTagged(tag MessageType, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	tagJSON, err := json.Marshal(tag)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(tagJSON) + len(tagField) + 4)
	buf.WriteString(`{"` + tagField + `":`)
	buf.Write(tagJSON)
	if rest := bytes.TrimPrefix(data, []byte("{")); len(rest) > 1 {
		buf.WriteByte(',')
		buf.Write(rest)
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}
