package feed

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultBufferSize is the per-subscriber queue length
const DefaultBufferSize = 64

// Subscription receives the events of one (owner, table) pair in publish order.
// C is closed when the subscription is cancelled or falls too far behind;
// in the latter case the consumer must reload the table.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	owner  string
	table  string
	broker *Broker
	once   sync.Once
}

// Close cancels the subscription
func (s *Subscription) Close() {
	s.broker.remove(s)
}

// Broker fans events out to subscribers
type Broker struct {
	mu         sync.Mutex
	subs       map[string]map[*Subscription]struct{}
	bufferSize int
	logger     *logrus.Logger
}

// NewBroker creates a broker; bufferSize <= 0 selects DefaultBufferSize
func NewBroker(bufferSize int, logger *logrus.Logger) *Broker {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Broker{
		subs:       make(map[string]map[*Subscription]struct{}),
		bufferSize: bufferSize,
		logger:     logger,
	}
}

func topic(owner, table string) string {
	return owner + "/" + table
}

// Subscribe registers interest in the changes of table for owner
func (b *Broker) Subscribe(owner, table string) *Subscription {
	ch := make(chan Event, b.bufferSize)
	sub := &Subscription{C: ch, ch: ch, owner: owner, table: table, broker: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	key := topic(owner, table)
	if b.subs[key] == nil {
		b.subs[key] = make(map[*Subscription]struct{})
	}
	b.subs[key][sub] = struct{}{}
	return sub
}

// Publish delivers e to every subscriber of its owner and table.
// A subscriber whose queue is full is dropped instead of blocking the publisher.
func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs[topic(e.OwnerID, e.Table)] {
		select {
		case sub.ch <- e:
		default:
			b.logger.WithFields(logrus.Fields{
				"owner_id": e.OwnerID,
				"table":    e.Table,
			}).Warn("購読者のキューが溢れたため購読を解除します")
			b.removeLocked(sub)
		}
	}
}

// Subscribers returns the number of live subscriptions
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, set := range b.subs {
		n += len(set)
	}
	return n
}

// ResetAll drops every subscription so that consumers reload their tables.
// It returns how many were dropped.
func (b *Broker) ResetAll() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, set := range b.subs {
		for sub := range set {
			b.removeLocked(sub)
			n++
		}
	}
	return n
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

func (b *Broker) removeLocked(sub *Subscription) {
	key := topic(sub.owner, sub.table)
	if set, ok := b.subs[key]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, key)
		}
	}
	sub.once.Do(func() { close(sub.ch) })
}
