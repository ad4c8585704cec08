package rx

// Listener receives events from an EventTarget. Targets identify listeners by
// equality, so implementations must be comparable.
type Listener[E any] interface {
	HandleEvent(E)
}

// EventTarget is anything that can register and unregister named listeners.
type EventTarget[E any] interface {
	AddListener(name string, l Listener[E])
	RemoveListener(name string, l Listener[E])
}

type listener[E any] struct {
	sub *Subscriber[E]
}

func (l *listener[E]) HandleEvent(e E) {
	l.sub.OnNext(e)
}

// FromEventSource emits every event named name fired by target. It never
// completes on its own; teardown removes the listener.
func FromEventSource[E any](target EventTarget[E], name string) Observable[E] {
	return Create(func(sub *Subscriber[E]) Teardown {
		l := &listener[E]{sub: sub}
		target.AddListener(name, l)
		return func() {
			target.RemoveListener(name, l)
		}
	})
}

// Hub is the subscribing half of a topic based event hub such as
// *pubsub.SimpleHub from github.com/juju/pubsub/v2.
type Hub interface {
	Subscribe(topic string, handler func(topic string, data interface{})) func()
}

// HubEvent is one message published on a Hub.
type HubEvent struct {
	Topic string
	Data  interface{}
}

// FromHub emits every message published on topic. Hubs may call handlers on
// their own goroutines, so messages are pushed through the scheduler of opts.
func FromHub(hub Hub, topic string, opts ...Option) Observable[HubEvent] {
	o := newOptions(opts)
	return Create(func(sub *Subscriber[HubEvent]) Teardown {
		unsubscribe := hub.Subscribe(topic, func(topic string, data interface{}) {
			dispatch(o.scheduler, func() {
				sub.OnNext(HubEvent{Topic: topic, Data: data})
			})
		})
		return Teardown(unsubscribe)
	})
}
