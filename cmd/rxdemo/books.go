package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/7vars/grx"
	"github.com/7vars/grx/rx"
)

type book struct {
	ID     int
	Title  string
	Author string
	Year   int
}

type reader struct {
	ID   int
	Name string
}

var books = []book{
	{1, "Goodnight Moon", "Margaret Wise Brown", 1953},
	{2, "Winnie-the-Pooh", "A. A. Milne", 1926},
	{3, "Where the Wild Things Are", "Maurice Sendak", 1963},
	{4, "The Hobbit", "J. R. R. Tolkien", 1937},
	{5, "Curious George", "H. A. Rey", 1941},
	{6, "Alice's Adventures in Wonderland", "Lewis Carroll", 1865},
}

var readers = []reader{
	{1, "Marie"},
	{2, "Daniel"},
	{3, "Lanier"},
}

// publishedBefore keeps books older than year and logs each one it lets
// through.
func publishedBefore(year int, logger grx.Logger) rx.OperatorFunc[book, book] {
	return rx.NewFlow(rx.Flow[book, book]{
		OnNext: func(out *rx.Subscriber[book], b book) {
			if b.Year < year {
				logger.WithField("year", b.Year).Debugf("published before %d: %s", year, b.Title)
				out.OnNext(b)
			}
		},
	})
}

func runOperators(_ *cli.Context, d *demo) error {
	titles := rx.Pipe2(
		rx.From(books),
		publishedBefore(1930, d.logger),
		rx.Map(func(b book) string { return fmt.Sprintf("%s (%d)", b.Title, b.Year) }),
	)
	observe(d, "old books", titles)

	fallback := reader{ID: 0, Name: "none"}
	names := rx.Pipe2(
		rx.Pipe(
			rx.From(readers),
			rx.Map(func(r reader) reader {
				if r.ID == 2 {
					panic("error in second stream")
				}
				return r
			}),
			rx.CatchError(func(err error) rx.Observable[reader] {
				d.logger.Warnf("reader stream failed: %v", err)
				return rx.Of(fallback)
			}),
		),
		rx.Map(func(r reader) string { return fmt.Sprintf("%d: %s", r.ID, r.Name) }),
		rx.Log[string](d.logger, "readers"),
	)
	observe(d, "readers", names)

	everything := rx.Concat(
		rx.Of("catalogue"),
		rx.Pipe1(rx.From(books), rx.Map(func(b book) string { return b.Author })),
	)
	observe(d, "concat", everything)
	return nil
}
