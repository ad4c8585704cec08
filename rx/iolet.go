package rx

import (
	"context"
	"sync"
)

// FromChan emits what arrives on ch and completes when ch is closed. Reading
// happens on a goroutine that ends with the subscription; values are pushed
// through the scheduler of opts.
func FromChan[T any](ch <-chan T, opts ...Option) Observable[T] {
	o := newOptions(opts)
	return Create(func(sub *Subscriber[T]) Teardown {
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-done:
					return
				default:
				}
				select {
				case <-done:
					return
				case v, open := <-ch:
					if !open {
						dispatch(o.scheduler, sub.OnComplete)
						return
					}
					dispatch(o.scheduler, func() { sub.OnNext(v) })
				}
			}
		}()
		return func() {
			close(done)
		}
	})
}

type chanOutlet[T any] struct {
	mu     sync.Mutex
	ctx    context.Context
	out    chan Notification[T]
	closed bool
}

func (c *chanOutlet[T]) send(n Notification[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.out <- n:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *chanOutlet[T]) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.out)
	}
}

// ToChan materializes the events of src into a channel of the given buffer
// size. src is subscribed on its own goroutine. The channel is closed after
// the terminal notification, or when ctx is done, which also unsubscribes. A
// full channel blocks the producer.
func ToChan[T any](ctx context.Context, src Observable[T], size int) <-chan Notification[T] {
	outlet := &chanOutlet[T]{ctx: ctx, out: make(chan Notification[T], size)}

	var sub *Subscriber[T]
	sub = NewSubscriber[T](ObserverFuncs[T]{
		Next: func(v T) {
			if !outlet.send(Next(v)) {
				sub.Unsubscribe()
			}
		},
		Error: func(err error) {
			outlet.send(Error[T](err))
			outlet.close()
		},
		Complete: func() {
			outlet.send(Complete[T]())
			outlet.close()
		},
	})
	stop := context.AfterFunc(ctx, func() {
		sub.Unsubscribe()
		outlet.close()
	})
	sub.Add(func() {
		stop()
	})

	go src.Subscribe(sub)
	return outlet.out
}
