// Package events provides the subscription registry used for economy
// notifications. Listener lifetime is tied to the unsubscribe handle
// returned by Subscribe rather than to callback list mutation.
//
// The simulation is single-threaded and frame-driven, so the bus does
// no locking; Publish runs every handler synchronously before returning.
package events

// Signal identifies a notification category.
type Signal uint8

const (
	// EnergyChanged fires on every reservoir mutation.
	EnergyChanged Signal = iota
	// EnergyLow fires when a reservoir crosses its critical threshold.
	EnergyLow
	// EnergyDepleted fires when a reservoir reaches zero.
	EnergyDepleted
	// EnergyFull fires when a reservoir reaches capacity.
	EnergyFull
	// LedgerEnergyLow fires when the global pool crosses its absolute low threshold.
	LedgerEnergyLow
	// LedgerEnergyDepleted fires when the global pool crosses its depleted threshold.
	LedgerEnergyDepleted
	// LedgerEnergyChanged fires on every successful global pool energy mutation.
	LedgerEnergyChanged
	// MaterialsChanged fires on every materials pool mutation.
	MaterialsChanged

	numSignals
)

// Payload carries the context of a notification.
type Payload struct {
	Entity  uint32  // owning entity, 0 for the global pool
	Delta   float64 // signed change that triggered the notification
	Current float64 // value after the mutation
	Reason  string  // source/purpose tag supplied by the caller
}

// Handler receives a published payload. Handlers are fire-and-forget;
// return values are not expected.
type Handler func(Payload)

// Bus dispatches signals to subscribed handlers.
type Bus struct {
	next uint64
	subs [numSignals]map[uint64]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for a signal and returns its unsubscribe
// handle. Calling the handle more than once is harmless.
func (b *Bus) Subscribe(s Signal, fn Handler) func() {
	if b.subs[s] == nil {
		b.subs[s] = make(map[uint64]Handler)
	}
	b.next++
	token := b.next
	b.subs[s][token] = fn
	return func() {
		delete(b.subs[s], token)
	}
}

// Publish runs every handler subscribed to the signal.
func (b *Bus) Publish(s Signal, p Payload) {
	for _, fn := range b.subs[s] {
		fn(p)
	}
}

// Clear drops all subscriptions. Used at session teardown so no residual
// callbacks fire after the owning entities are gone.
func (b *Bus) Clear() {
	for i := range b.subs {
		b.subs[i] = nil
	}
}
