package alkane

import (
	"fmt"
	"io"
	"strconv"
	"sync"
)

func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		openCatalogs: make(map[Catalog]struct{}),
		closing:      make(chan struct{}),
		closed:       make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.closing
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu           sync.Mutex
	openCount    sync.WaitGroup
	openCatalogs map[Catalog]struct{}
	closing      chan struct{}
	closed       chan struct{}
	closeOnce    sync.Once
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.openCount.Add(1)
	ctx.mu.Lock()
	ctx.openCatalogs[cat] = struct{}{}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; exists {
		delete(ctx.openCatalogs, cat)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	ctx.closeOnce.Do(func() {
		close(ctx.closing)
		ctx.mu.Lock()
		for cat := range ctx.openCatalogs {
			go cat.Close()
		}
		ctx.mu.Unlock()
	})
}

// LevelCount is the number of isomers found for one carbon count.
type LevelCount struct {
	Carbons int
	Isomers int64
}

// Summary is the per carbon count result of an enumeration, in ascending carbon count.
type Summary struct {
	Levels []LevelCount
}

// CountLevel returns the LevelCount of a completed level.
func CountLevel(set *IsomerSet) LevelCount {
	return LevelCount{
		Carbons: set.CarbonCount(),
		Isomers: int64(set.Len()),
	}
}

func (sum *Summary) Add(set *IsomerSet) {
	sum.Levels = append(sum.Levels, CountLevel(set))
}

// Counts returns the isomer counts in ascending carbon count.
func (sum *Summary) Counts() []int64 {
	counts := make([]int64, len(sum.Levels))
	for i, lvl := range sum.Levels {
		counts[i] = lvl.Isomers
	}
	return counts
}

// Total returns the number of isomers across all levels.
func (sum *Summary) Total() int64 {
	total := int64(0)
	for _, lvl := range sum.Levels {
		total += lvl.Isomers
	}
	return total
}

// String returns the compact form, e.g. "1:1, 2:1, 3:1, 4:2".
func (sum *Summary) String() string {
	var buf []byte
	for i, lvl := range sum.Levels {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = strconv.AppendInt(buf, int64(lvl.Carbons), 10)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, lvl.Isomers, 10)
	}
	return string(buf)
}

// tableRule underlines the table header.
const tableRule = "____________________________________"

// WriteTableHeader writes the caption rows of the per level table.
func WriteTableHeader(out io.Writer) {
	fmt.Fprintf(out, "n \t#isomers\n%s\n", tableRule)
}

// WriteTableRow writes this level as one table row, followed by any extra tab separated columns.
func (lvl LevelCount) WriteTableRow(out io.Writer, extra ...string) {
	fmt.Fprintf(out, "%d \t%d", lvl.Carbons, lvl.Isomers)
	for _, col := range extra {
		fmt.Fprintf(out, "\t%s", col)
	}
	fmt.Fprintf(out, "\n")
}
