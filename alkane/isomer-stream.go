package alkane

import (
	"fmt"
	"io"
)

// IsomerStream is a pipeline stage that emits codes on Outlet and closes it when done.
type IsomerStream struct {
	Outlet chan Code
}

func NewIsomerStream() *IsomerStream {
	stream := &IsomerStream{
		Outlet: make(chan Code, 1),
	}
	return stream
}

// StreamIsomers emits every code of the given set in acceptance order.
func StreamIsomers(set *IsomerSet) *IsomerStream {
	next := NewIsomerStream()

	go func() {
		N := set.Len()
		for i := 0; i < N; i++ {
			next.Outlet <- set.Code(i).MakeCopy()
		}
		next.Close()
	}()

	return next
}

// StreamCodes emits copies of the given codes.
func StreamCodes(codes ...Code) *IsomerStream {
	next := NewIsomerStream()

	go func() {
		for _, X := range codes {
			next.Outlet <- X.MakeCopy()
		}
		next.Close()
	}()

	return next
}

func (stream *IsomerStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// PullAll drains the stream and returns the number of codes received.
func (stream *IsomerStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains the stream into a slice.
func (stream *IsomerStream) Collect() []Code {
	var codes []Code
	for X := range stream.Outlet {
		codes = append(codes, X)
	}
	return codes
}

// Print writes each code as a line to out, passing it along unchanged.  out is closed when the stream ends.
func (stream *IsomerStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *IsomerStream {

	next := NewIsomerStream()

	go func() {
		buf := make([]byte, 0, 256)

		count := 0
		for X := range stream.Outlet {
			buf = buf[:0]
			if len(opts.Label) > 0 {
				buf = append(buf, opts.Label...)
				buf = append(buf, ',')
			}
			count++
			if opts.Numbering {
				buf = fmt.Appendf(buf, "%06d,", count)
			}
			buf = X.AppendDigits(buf)
			if opts.Skeleton {
				buf = append(buf, ',')
				buf = X.AppendSkeleton(buf)
			}
			if opts.Labeller != nil {
				buf = append(buf, ',')
				buf = opts.Labeller.Signature(X, nil).AppendString(buf)
			}
			buf = append(buf, '\n')
			out.Write(buf)
			next.Outlet <- X
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo offers each code to target and passes along only the codes target accepted.
func (stream *IsomerStream) AddTo(target IsomerAdder) *IsomerStream {
	next := NewIsomerStream()

	go func() {
		for X := range stream.Outlet {
			if target.TryAddIsomer(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

// Select passes along only the codes for which selects() returns true.
func (stream *IsomerStream) Select(selects func(X Code) bool) *IsomerStream {
	next := NewIsomerStream()

	go func() {
		for X := range stream.Outlet {
			if selects(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog emits every code the catalog holds for the given carbon count.
func SelectFromCatalog(cat Catalog, carbons int) *IsomerStream {
	next := NewIsomerStream()

	onHit := make(chan Code, 4)

	go func() {
		cat.Select(carbons, onHit)
		close(onHit)
	}()

	go func() {
		for X := range onHit {
			next.Outlet <- X
		}
		next.Close()
	}()

	return next
}
