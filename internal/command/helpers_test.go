package command

import (
	"context"
	"errors"
	"sync"
)

type publishedEvent struct {
	stream    string
	eventType string
	data      any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, stream, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{stream: stream, eventType: eventType, data: data})
	return nil
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

var errRedisDown = errors.New("redis: connection refused")
