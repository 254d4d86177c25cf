package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	kindField = "__kind__"
	otherKind = "other"

	// storedOtherPrefix prefixes the free text of an `other` variant in its
	// column encoding ("other:Scandinavian").
	storedOtherPrefix = otherKind + ":"
)

// encodeVariant renders the client's tagged-union shape:
// {"__kind__":"modern","modern":null} or {"__kind__":"other","other":"text"}.
func encodeVariant(kind, other string) ([]byte, error) {
	if kind == "" {
		return []byte("null"), nil
	}
	var payload any
	if kind == otherKind {
		payload = other
	}
	kindJSON, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"` + kindField + `":`)
	buf.Write(kindJSON)
	buf.WriteByte(',')
	buf.Write(kindJSON)
	buf.WriteByte(':')
	buf.Write(payloadJSON)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeVariant accepts the tagged object form and, for fixed variants, a bare
// tag string.
func decodeVariant(data []byte, known func(string) bool) (kind, other string, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", "", nil
	}

	if trimmed[0] == '"' {
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return "", "", err
		}
		if tag == otherKind || !known(tag) {
			return "", "", fmt.Errorf("unknown variant %q", tag)
		}
		return tag, "", nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return "", "", fmt.Errorf("variant must be an object: %w", err)
	}
	rawKind, ok := fields[kindField]
	if !ok {
		return "", "", fmt.Errorf("variant missing %s", kindField)
	}
	if err := json.Unmarshal(rawKind, &kind); err != nil {
		return "", "", fmt.Errorf("variant %s must be a string", kindField)
	}
	if !known(kind) {
		return "", "", fmt.Errorf("unknown variant %q", kind)
	}
	if kind != otherKind {
		return kind, "", nil
	}

	rawOther, ok := fields[otherKind]
	if !ok {
		return "", "", fmt.Errorf("variant other requires text")
	}
	if err := json.Unmarshal(rawOther, &other); err != nil {
		return "", "", fmt.Errorf("variant other text must be a string")
	}
	if strings.TrimSpace(other) == "" {
		return "", "", fmt.Errorf("variant other text is empty")
	}
	return kind, other, nil
}

func storeVariant(kind, other string) string {
	if kind == otherKind {
		return storedOtherPrefix + other
	}
	return kind
}

func scanVariant(value any, known func(string) bool) (kind, other string, err error) {
	if value == nil {
		return "", "", nil
	}
	raw, ok := toString(value)
	if !ok {
		return "", "", fmt.Errorf("unsupported scan type %T", value)
	}
	if strings.HasPrefix(raw, storedOtherPrefix) {
		return otherKind, strings.TrimPrefix(raw, storedOtherPrefix), nil
	}
	if raw == "" {
		return "", "", nil
	}
	if !known(raw) || raw == otherKind {
		return "", "", fmt.Errorf("unknown stored variant %q", raw)
	}
	return raw, "", nil
}

func toString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
