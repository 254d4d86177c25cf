package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StylePreference is the closed design-style union. Only the `other` case
// carries text.
type StylePreference struct {
	kind  string
	other string
}

var (
	StyleModern       = StylePreference{kind: "modern"}
	StyleTraditional  = StylePreference{kind: "traditional"}
	StyleContemporary = StylePreference{kind: "contemporary"}
	StyleBoho         = StylePreference{kind: "boho"}
	StyleMinimalist   = StylePreference{kind: "minimalist"}
	StyleRustic       = StylePreference{kind: "rustic"}
)

var styleKinds = map[string]struct{}{
	"modern":       {},
	"traditional":  {},
	"contemporary": {},
	"boho":         {},
	"minimalist":   {},
	"rustic":       {},
	otherKind:      {},
}

func isStyleKind(kind string) bool {
	_, ok := styleKinds[kind]
	return ok
}

// OtherStyle builds the free-text variant.
func OtherStyle(text string) StylePreference {
	return StylePreference{kind: otherKind, other: text}
}

// ParseStylePreference builds a variant from its tag; text is used only for
// `other`.
func ParseStylePreference(kind, text string) (StylePreference, error) {
	if !isStyleKind(kind) {
		return StylePreference{}, fmt.Errorf("unknown style preference %q", kind)
	}
	if kind == otherKind {
		if strings.TrimSpace(text) == "" {
			return StylePreference{}, fmt.Errorf("style preference other requires text")
		}
		return OtherStyle(text), nil
	}
	return StylePreference{kind: kind}, nil
}

func (s StylePreference) Kind() string { return s.kind }

// OtherText returns the payload of the `other` case, empty otherwise.
func (s StylePreference) OtherText() string { return s.other }

func (s StylePreference) IsZero() bool { return s.kind == "" }

func (s StylePreference) IsValid() bool {
	if !isStyleKind(s.kind) {
		return false
	}
	return s.kind != otherKind || strings.TrimSpace(s.other) != ""
}

// Equal compares tags, and for `other` the exact text.
func (s StylePreference) Equal(o StylePreference) bool {
	return s.kind == o.kind && s.other == o.other
}

func (s StylePreference) String() string {
	return storeVariant(s.kind, s.other)
}

func (s StylePreference) MarshalJSON() ([]byte, error) {
	return encodeVariant(s.kind, s.other)
}

func (s *StylePreference) UnmarshalJSON(data []byte) error {
	kind, other, err := decodeVariant(data, isStyleKind)
	if err != nil {
		return fmt.Errorf("style preference: %w", err)
	}
	s.kind, s.other = kind, other
	return nil
}

func (s StylePreference) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("style preference: invalid value %q", s.kind)
	}
	return storeVariant(s.kind, s.other), nil
}

func (s *StylePreference) Scan(value any) error {
	kind, other, err := scanVariant(value, isStyleKind)
	if err != nil {
		return fmt.Errorf("style preference: %w", err)
	}
	s.kind, s.other = kind, other
	return nil
}

// ContainsStyle reports whether any element of list is variant-equal to want.
func ContainsStyle(list []StylePreference, want StylePreference) bool {
	for _, s := range list {
		if s.Equal(want) {
			return true
		}
	}
	return false
}

// AnyStyleMatches reports whether the two lists share at least one variant.
func AnyStyleMatches(declared, requested []StylePreference) bool {
	for _, r := range requested {
		if ContainsStyle(declared, r) {
			return true
		}
	}
	return false
}
