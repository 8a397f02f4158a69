package progress

import (
	"sync"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/api"
)

// Reporter receives pipeline progress
type Reporter interface {
	Report(ev *api.ProgressEvent)
}

const bufferSize = 16

// Hub fans progress events out to subscribers of a job id
type Hub struct {
	lock sync.Mutex
	subs map[string]map[chan *api.ProgressEvent]struct{}
	last map[string]*api.ProgressEvent
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan *api.ProgressEvent]struct{}),
		last: make(map[string]*api.ProgressEvent),
	}
}

// Subscribe returns a channel of events for the id. The last known event, if
// any, is delivered first. The returned func must be called to unsubscribe
func (h *Hub) Subscribe(id string) (<-chan *api.ProgressEvent, func()) {
	h.lock.Lock()
	defer h.lock.Unlock()
	ch := make(chan *api.ProgressEvent, bufferSize)
	if ev, ok := h.last[id]; ok {
		ch <- ev
	}
	m, ok := h.subs[id]
	if !ok {
		m = make(map[chan *api.ProgressEvent]struct{})
		h.subs[id] = m
	}
	m[ch] = struct{}{}
	var once sync.Once
	return ch, func() { once.Do(func() { h.unsubscribe(id, ch) }) }
}

func (h *Hub) unsubscribe(id string, ch chan *api.ProgressEvent) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if m, ok := h.subs[id]; ok {
		if _, ok := m[ch]; ok {
			delete(m, ch)
			close(ch)
		}
		if len(m) == 0 {
			delete(h.subs, id)
		}
	}
}

// Report publishes the event. Slow subscribers lose events, they never block
// the pipeline. Done events close all subscriptions of the id
func (h *Hub) Report(ev *api.ProgressEvent) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for ch := range h.subs[ev.ID] {
		select {
		case ch <- ev:
		default:
			goapp.Log.Warn().Str("id", ev.ID).Str("stage", ev.Stage).Msg("progress event dropped")
		}
	}
	if ev.Final() {
		for ch := range h.subs[ev.ID] {
			close(ch)
		}
		delete(h.subs, ev.ID)
		delete(h.last, ev.ID)
		return
	}
	h.last[ev.ID] = ev
}
