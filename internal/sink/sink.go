// Package sink defines the status-reporting interface the crawl engine
// writes progress through, and a console implementation, matching the
// spec's requirement that this is a separate, read-mostly background
// task: it must never mutate crawl state, only observe and render it.
package sink

import (
	"fmt"
	"os"
	"sync"

	"github.com/gamh86/webreaper/internal/reconn"
)

// Sink receives crawl progress events. Implementations must be safe for
// concurrent use: the crawl engine calls these from its single fetch
// goroutine while a status refresher may call Connection/Level from a
// second goroutine to re-render current state.
type Sink interface {
	Level(depth, total int)
	Connection(host string, state reconn.State)
	Fetching(url string)
	Error(err error)
	Archived(localPath string)
}

// Console renders status lines to stdout/stderr, one overwritten line
// per event, guarded by its own mutex independent of any urlindex lock
// so a slow terminal never stalls the fetch loop.
type Console struct {
	mu sync.Mutex
}

// NewConsole returns a Sink that writes to the process's standard
// streams.
func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Level(depth, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\rlevel %d: %d urls queued", depth, total)
}

func (c *Console) Connection(host string, state reconn.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\r%s: %s", host, state)
}

func (c *Console) Fetching(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\rfetching %s", url)
}

func (c *Console) Error(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%v\n", err)
}

func (c *Console) Archived(localPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stdout, "\rarchived %s", localPath)
}
