package persist

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexBool decodes JSON booleans and their legacy string forms ("True", "1").
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var native bool
	if err := json.Unmarshal(data, &native); err == nil {
		*b = FlexBool(native)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := strconv.ParseBool(strings.TrimSpace(text))
		*b = FlexBool(err == nil && parsed)
		return nil
	}
	*b = false
	return nil
}

// FlexFloat decodes JSON numbers and numeric strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var native float64
	if err := json.Unmarshal(data, &native); err == nil {
		*f = FlexFloat(native)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			*f = FlexFloat(parsed)
			return nil
		}
	}
	*f = 0
	return nil
}

// FlexInt decodes JSON integers, whole floats, and numeric strings.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var native float64
	if err := json.Unmarshal(data, &native); err == nil {
		*i = FlexInt(int(native))
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			*i = FlexInt(parsed)
			return nil
		}
	}
	*i = 0
	return nil
}

// FlexString decodes JSON strings and keeps the literal text of numbers and
// booleans. Objects, arrays and null decode to "".
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = ""
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err == nil {
			*s = FlexString(strings.TrimSpace(text))
		}
	case '{', '[', 'n':
	default:
		*s = FlexString(data)
	}
	return nil
}

// ClipList decodes a clips array. A value that is not an array decodes to
// no clips; elements that are not objects become empty records, which the
// decoder counts as unresolved.
type ClipList []ClipRecord

func (l *ClipList) UnmarshalJSON(data []byte) error {
	*l = nil
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	for _, item := range items {
		var record ClipRecord
		if trimmed := bytes.TrimSpace(item); len(trimmed) > 0 && trimmed[0] == '{' {
			_ = json.Unmarshal(trimmed, &record)
		}
		*l = append(*l, record)
	}
	return nil
}
