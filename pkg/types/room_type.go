package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// RoomType is the closed room union. Only the `other` case carries text.
type RoomType struct {
	kind  string
	other string
}

var (
	RoomLivingRoom = RoomType{kind: "livingRoom"}
	RoomBedroom    = RoomType{kind: "bedroom"}
	RoomDiningRoom = RoomType{kind: "diningRoom"}
	RoomOffice     = RoomType{kind: "office"}
	RoomKidsRoom   = RoomType{kind: "kidsRoom"}
)

var roomKinds = map[string]struct{}{
	"livingRoom": {},
	"bedroom":    {},
	"diningRoom": {},
	"office":     {},
	"kidsRoom":   {},
	otherKind:    {},
}

func isRoomKind(kind string) bool {
	_, ok := roomKinds[kind]
	return ok
}

func OtherRoom(text string) RoomType {
	return RoomType{kind: otherKind, other: text}
}

func ParseRoomType(kind, text string) (RoomType, error) {
	if !isRoomKind(kind) {
		return RoomType{}, fmt.Errorf("unknown room type %q", kind)
	}
	if kind == otherKind {
		if strings.TrimSpace(text) == "" {
			return RoomType{}, fmt.Errorf("room type other requires text")
		}
		return OtherRoom(text), nil
	}
	return RoomType{kind: kind}, nil
}

func (r RoomType) Kind() string      { return r.kind }
func (r RoomType) OtherText() string { return r.other }
func (r RoomType) IsZero() bool      { return r.kind == "" }

func (r RoomType) IsValid() bool {
	if !isRoomKind(r.kind) {
		return false
	}
	return r.kind != otherKind || strings.TrimSpace(r.other) != ""
}

func (r RoomType) Equal(o RoomType) bool {
	return r.kind == o.kind && r.other == o.other
}

func (r RoomType) String() string {
	return storeVariant(r.kind, r.other)
}

func (r RoomType) MarshalJSON() ([]byte, error) {
	return encodeVariant(r.kind, r.other)
}

func (r *RoomType) UnmarshalJSON(data []byte) error {
	kind, other, err := decodeVariant(data, isRoomKind)
	if err != nil {
		return fmt.Errorf("room type: %w", err)
	}
	r.kind, r.other = kind, other
	return nil
}

// Value stores the variant as "bedroom" or "other:<text>" so exact-variant
// filters are plain equality in SQL.
func (r RoomType) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("room type: invalid value %q", r.kind)
	}
	return storeVariant(r.kind, r.other), nil
}

func (r *RoomType) Scan(value any) error {
	kind, other, err := scanVariant(value, isRoomKind)
	if err != nil {
		return fmt.Errorf("room type: %w", err)
	}
	r.kind, r.other = kind, other
	return nil
}
