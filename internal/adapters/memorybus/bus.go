// Package memorybus diffuse les événements du service (statut résolu,
// réglages modifiés) aux abonnés SSE du processus.
package memorybus

import (
	"sync"

	"github.com/church-livestream/cls/internal/metrics"
	"github.com/church-livestream/cls/internal/ports"
)

const defaultBuffer = 64

type Bus struct {
	mu     sync.Mutex
	subs   map[chan ports.Event]struct{}
	buffer int
	closed bool
}

// New crée un bus; buffer <= 0 prend la taille par défaut.
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Bus{subs: make(map[chan ports.Event]struct{}), buffer: buffer}
}

func (b *Bus) Publish(topic string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	evt := ports.Event{Topic: topic, Payload: payload}
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
			// abonné trop lent
			metrics.EventsDroppedTotal.Inc()
		}
	}
}

// Subscribe renvoie un canal fermé si le bus est déjà arrêté.
func (b *Bus) Subscribe() (<-chan ports.Event, func()) {
	ch := make(chan ports.Event, b.buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ferme tous les abonnements; les flux SSE se terminent d'eux-mêmes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
