package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Reader provides context-aware line input for confirmation prompts.
type Reader struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewReader creates a reader over the given input and output streams.
func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// ReadLine reads one trimmed line, respecting context cancellation.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		// The reading goroutine keeps running until stdin yields a line,
		// but the caller returns immediately.
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// Confirm asks a yes/no question and reports the answer. Anything other than
// "s", "si", "y" or "yes" counts as no.
func (r *Reader) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprint(r.out, FormatPrompt(question+" [s/N]"))
	line, err := r.ReadLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "s", "si", "sí", "y", "yes":
		return true, nil
	}
	return false, nil
}
