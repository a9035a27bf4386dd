package handler

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// Console reads input lines on a background goroutine so a read can be raced
// against a deadline. Reads are serialised; a read abandoned by its caller
// still completes into its own buffered slot, so its line is dropped instead
// of answering a later prompt. Lines have no length limit.
type Console struct {
	mu     sync.Mutex
	reader *bufio.Reader
}

func NewConsole(r io.Reader) *Console {
	return &Console{reader: bufio.NewReader(r)}
}

func (c *Console) ReadLine(ctx context.Context) (string, error) {
	slot := make(chan lineResult, 1)
	go c.readInto(slot)

	select {
	case res := <-slot:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Console) readInto(slot chan<- lineResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, err := c.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		slot <- lineResult{err: err}
		return
	}

	slot <- lineResult{line: strings.TrimRight(line, "\r\n")}
}
