package game

import (
	"reflect"

	"github.com/tomz197/lasereye/internal/object"
)

// ScoreChanged is published after every score mutation.
type ScoreChanged struct {
	Score int
	Delta int
}

// TargetDestroyed is published when a shot or the power ability destroys a target.
type TargetDestroyed struct {
	Kind    object.Kind
	Slot    int
	X, Y    float64
	Points  int
	ByPower bool
}

// PowerStateChanged is published when the power state machine changes state.
type PowerStateChanged struct {
	From PowerState
	To   PowerState
}

// Bus is a synchronous typed event bus. Handlers run on the publishing
// goroutine, in subscription order, before Publish returns.
type Bus struct {
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]any)}
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Publish delivers ev to every handler subscribed to T.
func Publish[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for _, h := range b.handlers[t] {
		// Subscribe and Publish key by the same type, so the assertion holds.
		h.(func(T))(ev)
	}
}
