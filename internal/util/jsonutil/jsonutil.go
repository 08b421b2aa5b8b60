package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when a model response holds no JSON object at all.
var ErrNoJSON = errors.New("jsonutil: no json object in text")

// ExtractObject pulls the first JSON object out of model output. It strips
// markdown code fences and any prose around the outermost braces.
func ExtractObject(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// drop the language tag line ("json", "JSON", ...)
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return nil, ErrNoJSON
	}
	return []byte(s[start : end+1]), nil
}

// MarshalNoEscape encodes v into JSON without HTML-escaping <, > and &.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return out, nil
}

// UnescapeUnicodeString converts JSON unicode escape sequences into actual characters.
// Double-escaped sequences lose one level of escaping per call.
func UnescapeUnicodeString(s string) (string, error) {
	// Trick: force JSON to treat the string as a quoted JSON string
	esc := strings.ReplaceAll(s, `\`, `\\`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}

// NormalizeJSONUnicode parses JSON bytes and recursively unescapes any remaining
// double-escaped unicode sequences (e.g. "\\u003e") inside string values.
// A payload that is itself a quoted JSON string is unwrapped once.
func NormalizeJSONUnicode(raw []byte) ([]byte, error) {
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		return nil, err
	}
	if s, ok := anyVal.(string); ok {
		if err := json.Unmarshal([]byte(s), &anyVal); err != nil {
			return nil, errors.New("NormalizeJSONUnicode: cannot parse JSON payload")
		}
	}
	return MarshalNoEscape(deepUnescape(anyVal))
}

// UnmarshalFlex tries to unmarshal JSON bytes into v with best effort:
// 1) Direct unmarshal
// 2) Normalize and unmarshal
// This helps when JSON contains double-escaped unicode sequences.
func UnmarshalFlex(raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	norm, nerr := NormalizeJSONUnicode(raw)
	if nerr != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// deepUnescape recursively traverses maps and slices,
// unescaping unicode sequences in all string values.
func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := UnescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
