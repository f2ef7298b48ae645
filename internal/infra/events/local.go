package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LocalPublisher hands events to an in-process handler on a goroutine,
// mirroring the at-most-once behaviour of the AMQP path.
type LocalPublisher struct {
	handler Handler
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewLocalPublisher(h Handler, log *zap.Logger) *LocalPublisher {
	return &LocalPublisher{handler: h, log: log, timeout: 10 * time.Second}
}

func (p *LocalPublisher) Publish(_ context.Context, key string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		if err := p.handler.Handle(ctx, key, b); err != nil {
			p.log.Warn("event handler failed", zap.String("key", key), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until in-flight handlers return.
func (p *LocalPublisher) Wait() {
	p.wg.Wait()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
