package registry

import (
	"encoding/json"
	"fmt"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
)

type decoderKey struct {
	eventType enums.OutboxEventType
	version   int
}

// DecoderRegistry maps (event type, envelope version) to a function turning
// the envelope data into the value a consumer acts on. Register everything
// before the registry is shared; lookups are read-only.
type DecoderRegistry[T any] struct {
	decoders map[decoderKey]func(json.RawMessage) (T, error)
}

func NewDecoderRegistry[T any]() *DecoderRegistry[T] {
	return &DecoderRegistry[T]{decoders: map[decoderKey]func(json.RawMessage) (T, error){}}
}

func (r *DecoderRegistry[T]) Register(eventType enums.OutboxEventType, version int, decode func(json.RawMessage) (T, error)) {
	r.decoders[decoderKey{eventType, version}] = decode
}

func (r *DecoderRegistry[T]) Has(eventType enums.OutboxEventType, version int) bool {
	_, ok := r.decoders[decoderKey{eventType, version}]
	return ok
}

func (r *DecoderRegistry[T]) Decode(eventType enums.OutboxEventType, version int, data json.RawMessage) (T, error) {
	decode, ok := r.decoders[decoderKey{eventType, version}]
	if !ok {
		var zero T
		return zero, fmt.Errorf("no decoder for %s v%d", eventType, version)
	}
	return decode(data)
}

// JSONDecoder unmarshals the data into P and hands it to convert.
func JSONDecoder[P, T any](convert func(P) T) func(json.RawMessage) (T, error) {
	return func(data json.RawMessage) (T, error) {
		var payload P
		if err := json.Unmarshal(data, &payload); err != nil {
			var zero T
			return zero, err
		}
		return convert(payload), nil
	}
}
