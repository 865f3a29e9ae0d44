package events

import (
	"context"
	"errors"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Fanout delivers every event to all publishers and joins their errors.
type Fanout []Publisher

func (f Fanout) PublishEvent(ctx context.Context, topic, key string, event any) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishEvent(ctx, topic, key, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }

// Combine drops nil publishers and returns Nop when none remain.
func Combine(pubs ...Publisher) Publisher {
	var out Fanout
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return Nop{}
	case 1:
		return out[0]
	default:
		return out
	}
}
