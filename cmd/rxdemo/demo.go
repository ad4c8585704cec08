package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/7vars/grx"
	"github.com/7vars/grx/rx"
)

type demo struct {
	logger grx.Logger
	period time.Duration
	count  int
	late   time.Duration
	wg     sync.WaitGroup
}

func newDemo(c *cli.Context) (*demo, error) {
	conf, err := grx.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	d := &demo{
		logger: grx.NewLogger(conf, os.Stdout),
		period: conf.GetDurationDefault("rxdemo.period", 500*time.Millisecond),
		count:  conf.GetIntDefault("rxdemo.count", 5),
		late:   conf.GetDurationDefault("rxdemo.late", 4*time.Second),
	}
	if c.IsSet("period") {
		d.period = c.Duration("period")
	}
	if c.IsSet("count") {
		d.count = c.Int("count")
	}
	if c.IsSet("late") {
		d.late = c.Duration("late")
	}
	if d.period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %s", d.period)
	}
	return d, nil
}

// observe prints every event of src under name and keeps the demo running
// until src terminates.
func observe[T any](d *demo, name string, src rx.Observable[T]) *rx.Subscription {
	log := d.logger.WithField("observer", name)
	d.wg.Add(1)
	return src.Subscribe(rx.ObserverFuncs[T]{
		Next: func(v T) {
			log.Infof("%v", v)
		},
		Error: func(err error) {
			log.Errorf("%v", err)
			d.wg.Done()
		},
		Complete: func() {
			log.Infof("complete")
			d.wg.Done()
		},
	})
}

func (d *demo) after(delay time.Duration, fn func()) {
	d.wg.Add(1)
	rx.ForEach(rx.Timer(delay), func(int) {
		defer d.wg.Done()
		fn()
	})
}

func (d *demo) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warnf("interrupted")
		return nil
	}
}

func (d *demo) ticks() rx.Observable[int] {
	return rx.Pipe(rx.Interval(d.period), rx.Take[int](d.count))
}

func runCold(_ *cli.Context, d *demo) error {
	src := d.ticks()
	observe(d, "first", src)
	d.after(d.period, func() { observe(d, "second", src) })
	d.after(2*d.period, func() { observe(d, "third", src) })
	return nil
}

func runHot(_ *cli.Context, d *demo) error {
	subject := rx.NewSubject[int]()
	observe[int](d, "first", subject)
	d.after(d.period, func() { observe[int](d, "second", subject) })
	d.after(2*d.period, func() { observe[int](d, "third", subject) })
	d.ticks().Subscribe(subject)
	return nil
}

func runPublish(_ *cli.Context, d *demo) error {
	src := rx.Pipe(d.ticks(), rx.Share[int](rx.Persistent(), rx.WithLogger(d.logger)))
	observe(d, "publish", src)
	d.after(d.late, func() { observe(d, "publish late", src) })
	return nil
}

func runShare(_ *cli.Context, d *demo) error {
	src := rx.Pipe(d.ticks(), rx.Share[int](rx.WithLogger(d.logger)))
	observe(d, "share", src)
	d.after(d.late, func() { observe(d, "share late", src) })
	return nil
}

func runFetch(c *cli.Context, d *demo) error {
	src := rx.Pipe1(
		rx.FromAsyncRequest(rx.HTTPGet(nil, c.String("url"))),
		rx.Map(func(res rx.Response) string {
			return fmt.Sprintf("%d %s, %d bytes", res.Status, res.Header.Get("Content-Type"), len(res.Body))
		}),
	)
	observe(d, "fetch", src)
	return nil
}
