package rx

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/7vars/grx"
)

// Request is an asynchronous operation producing one result.
type Request[T any] func(context.Context) (T, error)

// FromAsyncRequest issues req on every Subscribe in its own goroutine. It
// emits the response and completes, or errors, through the scheduler of
// opts. Unsubscribing cancels the request context; a response arriving
// afterwards is dropped.
func FromAsyncRequest[T any](req Request[T], opts ...Option) Observable[T] {
	o := newOptions(opts)
	return Create(func(sub *Subscriber[T]) Teardown {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			defer cancel()
			res, err := req.do(ctx)
			dispatch(o.scheduler, func() {
				if err != nil {
					sub.OnError(err)
					return
				}
				sub.OnNext(res)
				sub.OnComplete()
			})
		}()
		return Teardown(cancel)
	})
}

func (req Request[T]) do(ctx context.Context) (res T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = grx.RuntimeError(p)
		}
	}()
	return req(ctx)
}

// Response is the result of HTTPGet.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// HTTPGet is a Request fetching url. Non 2xx statuses are errors.
func HTTPGet(client *http.Client, url string) Request[Response] {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) (Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Response{}, err
		}
		res, err := client.Do(req)
		if err != nil {
			return Response{}, err
		}
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return Response{}, err
		}
		if res.StatusCode < 200 || res.StatusCode > 299 {
			return Response{}, fmt.Errorf("rx: GET %s: %s", url, res.Status)
		}
		return Response{Status: res.StatusCode, Header: res.Header, Body: body}, nil
	}
}
