package sse

import (
	"context"
	"log"
	"sync"
)

const (
	publishBuffer = 100
	clientBuffer  = 16
)

// Hub broadcasts messages to subscribers grouped by topic.
//
// All changes to the topic table happen on the Run goroutine; publishers only
// write to a buffered channel, so a slow or absent Run never blocks them.
type Hub struct {
	topics map[string]map[chan []byte]bool

	subscribe   chan subscription
	unsubscribe chan subscription
	publish     chan topicMessage

	mu sync.Mutex
}

type subscription struct {
	ch    chan []byte
	topic string
	done  chan struct{}
}

type topicMessage struct {
	topic string
	msg   []byte
}

// NewHub creates a hub; start it with go hub.Run(ctx)
func NewHub() *Hub {
	return &Hub{
		topics:      make(map[string]map[chan []byte]bool),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		publish:     make(chan topicMessage, publishBuffer),
	}
}

// Run processes subscriptions and publications until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-h.subscribe:
			h.mu.Lock()
			subs, ok := h.topics[s.topic]
			if !ok {
				subs = make(map[chan []byte]bool)
				h.topics[s.topic] = subs
			}
			subs[s.ch] = true
			h.mu.Unlock()
			close(s.done)
		case s := <-h.unsubscribe:
			h.mu.Lock()
			if subs, ok := h.topics[s.topic]; ok {
				delete(subs, s.ch)
				if len(subs) == 0 {
					delete(h.topics, s.topic)
				}
			}
			h.mu.Unlock()
			close(s.done)
		case tm := <-h.publish:
			h.mu.Lock()
			for ch := range h.topics[tm.topic] {
				select {
				case ch <- tm.msg:
				default:
					// client not reading
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishTopic queues msg for every subscriber of topic. When the queue is
// full the message is dropped and PublishTopic reports false.
func (h *Hub) PublishTopic(topic string, msg []byte) bool {
	select {
	case h.publish <- topicMessage{topic: topic, msg: msg}:
		return true
	default:
		log.Printf("⚠️  SSE publish queue full, dropping message for topic %s", topic)
		return false
	}
}

// Subscribe registers ch for topic and returns once the hub has recorded it.
// The caller owns ch and must Unsubscribe before closing it.
func (h *Hub) Subscribe(ctx context.Context, ch chan []byte, topic string) bool {
	return h.send(ctx, h.subscribe, subscription{ch: ch, topic: topic, done: make(chan struct{})})
}

// Unsubscribe removes ch from topic
func (h *Hub) Unsubscribe(ctx context.Context, ch chan []byte, topic string) bool {
	return h.send(ctx, h.unsubscribe, subscription{ch: ch, topic: topic, done: make(chan struct{})})
}

// Subscribers returns the number of channels subscribed to topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

func (h *Hub) send(ctx context.Context, target chan subscription, s subscription) bool {
	select {
	case target <- s:
	case <-ctx.Done():
		return false
	}
	select {
	case <-s.done:
		return true
	case <-ctx.Done():
		return false
	}
}
