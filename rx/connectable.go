package rx

import (
	"sync"
)

// Connectable multicasts one execution of a source through a Subject. The
// source is subscribed by Connect, not by Subscribe.
type Connectable[T any] struct {
	mu         sync.Mutex
	source     Observable[T]
	opts       options
	subject    *Subject[T]
	connection *Subscription
}

// Publish wraps src for manual connection. Unless the Persistent option is
// given, the Subject is discarded whenever the connection ends, so the next
// connection is a fresh execution.
func Publish[T any](src Observable[T], opts ...Option) *Connectable[T] {
	return &Connectable[T]{
		source: src,
		opts:   newOptions(opts),
	}
}

func (c *Connectable[T]) currentSubject() *Subject[T] {
	if c.subject == nil || (!c.opts.persistent && c.subject.Stopped()) {
		c.subject = NewSubject[T]()
	}
	return c.subject
}

// Subscribe registers o with the current Subject without connecting.
func (c *Connectable[T]) Subscribe(o Observer[T]) *Subscription {
	c.mu.Lock()
	subject := c.currentSubject()
	c.mu.Unlock()
	return subject.Subscribe(o)
}

// Connect subscribes the Subject to the source, unless a connection is
// already running, in which case that connection is returned. The connection
// ends when the source terminates or the returned Subscription is
// unsubscribed.
func (c *Connectable[T]) Connect() *Subscription {
	conn, start := c.connect()
	start()
	return conn
}

// connect reserves the connection without subscribing the source; start
// does that. Unsubscribing conn before or during start stops the source.
func (c *Connectable[T]) connect() (conn *Subscription, start func()) {
	noop := func() {}

	c.mu.Lock()
	if c.connection != nil {
		conn = c.connection
		c.mu.Unlock()
		return conn, noop
	}
	subject := c.currentSubject()
	if subject.Stopped() {
		// persistent and already terminated: nothing left to produce
		c.mu.Unlock()
		conn = NewSubscription(nil)
		conn.Unsubscribe()
		return conn, noop
	}
	conn = NewSubscription(nil)
	c.connection = conn
	c.mu.Unlock()

	log := c.opts.logger.WithField("connection", conn.ID())
	conn.Add(func() {
		c.mu.Lock()
		if c.connection == conn {
			c.connection = nil
			if !c.opts.persistent {
				c.subject = nil
			}
		}
		c.mu.Unlock()
		log.Debugf("disconnected")
	})

	return conn, func() {
		log.Debugf("connecting")
		upstream := NewSubscriber[T](subject)
		conn.AddSubscription(upstream.Subscription)
		upstream.Add(conn.Unsubscribe)
		c.source.Subscribe(upstream)
	}
}

// RefCount connects on the first subscriber and disconnects when the last one
// leaves. A subscriber arriving after that starts a new connection.
func (c *Connectable[T]) RefCount() Observable[T] {
	return &refCount[T]{source: c}
}

type refCount[T any] struct {
	mu         sync.Mutex
	source     *Connectable[T]
	count      int
	connection *Subscription
}

func (r *refCount[T]) Subscribe(o Observer[T]) *Subscription {
	sub := asSubscriber(o)

	r.mu.Lock()
	r.count++
	first := r.count == 1
	r.mu.Unlock()

	sub.Add(r.release)
	r.source.Subscribe(sub)
	if !first {
		return sub.Subscription
	}

	// the connection is adopted before the source runs, so subscribers
	// leaving during a synchronous source disconnect it
	conn, start := r.source.connect()
	r.mu.Lock()
	if r.count > 0 && r.connection == nil {
		r.connection, conn = conn, nil
	}
	r.mu.Unlock()
	if conn != nil {
		// everybody left before connecting
		conn.Unsubscribe()
		return sub.Subscription
	}
	start()
	return sub.Subscription
}

func (r *refCount[T]) release() {
	r.mu.Lock()
	r.count--
	var conn *Subscription
	if r.count == 0 {
		conn, r.connection = r.connection, nil
	}
	r.mu.Unlock()
	if conn != nil {
		conn.Unsubscribe()
	}
}

// Count is the number of attached subscribers.
func (r *refCount[T]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Share multicasts one execution of the source among all its subscribers
// while at least one is attached. It is Publish followed by RefCount.
func Share[T any](opts ...Option) OperatorFunc[T, T] {
	return func(src Observable[T]) Observable[T] {
		return Publish(src, opts...).RefCount()
	}
}
