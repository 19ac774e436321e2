package pubsub

import (
	"log/slog"
	"sync"
)

// subscriberBuffer - events queued per subscriber before deliveries get
// dropped for that subscriber.
const subscriberBuffer = 16

// Subscriber is one connected viewer of a game. Events arrive on C.
type Subscriber struct {
	gameID string
	ch     chan Event
}

// C - the stream of events for this subscriber.
func (that *Subscriber) C() <-chan Event {
	return that.ch
}

// Broker fans session events out to every currently subscribed viewer of a
// game. Delivery is best effort: there is no replay buffer, a viewer that
// subscribes after an event was published never sees it, and a viewer whose
// buffer is full has that delivery dropped. Publish never blocks on a slow
// subscriber.
type Broker struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger: logger.With("component", "pubsub"),
		subs:   make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe - registers a new viewer for a game.
func (that *Broker) Subscribe(gameID string) *Subscriber {
	sub := &Subscriber{
		gameID: gameID,
		ch:     make(chan Event, subscriberBuffer),
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.subs[gameID] == nil {
		that.subs[gameID] = make(map[*Subscriber]struct{})
	}
	that.subs[gameID][sub] = struct{}{}

	return sub
}

// Unsubscribe - removes a viewer and closes its stream. Safe to call for a
// subscriber that was already removed.
func (that *Broker) Unsubscribe(sub *Subscriber) {
	that.mu.Lock()
	defer that.mu.Unlock()

	viewers, ok := that.subs[sub.gameID]
	if !ok {
		return
	}

	if _, ok = viewers[sub]; !ok {
		return
	}

	delete(viewers, sub)
	if len(viewers) == 0 {
		delete(that.subs, sub.gameID)
	}

	close(sub.ch)
}

// Publish - delivers an event to every current subscriber of the game.
func (that *Broker) Publish(gameID string, event Event) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for sub := range that.subs[gameID] {
		select {
		case sub.ch <- event:
		default:
			that.logger.Warn("subscriber buffer full, dropping event", "gameID", gameID, "kind", string(event.Kind))
		}
	}
}

// Subscribers - the number of current viewers of a game.
func (that *Broker) Subscribers(gameID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.subs[gameID])
}
