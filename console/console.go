// Package console reads pipeline input from a terminal and prints results to it.
//
// A session looks like:
//
//	Enter x: 6
//	z = 36
//	Continue? (y/n): n
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/andriiyaremenko/handoff"
	"github.com/andriiyaremenko/handoff/internal"
)

var (
	_ handoff.Source[int] = new(Console[int])
	_ handoff.Sink[int]   = new(Console[int])
)

const (
	inputPrompt    = "Enter x: "
	continuePrompt = "Continue? (y/n): "
)

// Parser converts a whitespace separated token into a value.
type Parser[T any] func(string) (T, error)

// Console is both the input and the output collaborator of a pipeline.
// Tokens are whitespace separated, so "6 y 7 n" on one line is a full session.
//
// Reads happen on a separate goroutine, so Next and Continue return ctx.Err()
// as soon as ctx is done even while the reader is blocked. A token read after
// cancellation is kept for the next call.
// Console is not safe for concurrent use. Close releases the reader goroutine.
type Console[T any] struct {
	scanner *bufio.Scanner
	out     io.Writer
	parse   Parser[T]

	startOnce sync.Once
	closeOnce sync.Once
	requests  chan struct{}
	results   chan scanResult
	done      chan struct{}
	pending   bool
}

type scanResult struct {
	token string
	err   error
}

func New[T any](in io.Reader, out io.Writer, parse Parser[T]) *Console[T] {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	return &Console[T]{
		scanner:  scanner,
		out:      out,
		parse:    parse,
		requests: make(chan struct{}),
		results:  make(chan scanResult, 1),
		done:     make(chan struct{}),
	}
}

// Close stops the reader goroutine once its current read returns.
// Reads after Close return io.EOF.
func (c *Console[T]) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Prompts for a value and reads it.
// Returns *handoff.InputError[T] if the token can not be parsed.
func (c *Console[T]) Next(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		return internal.ZeroValue[T](), err
	}

	fmt.Fprint(c.out, inputPrompt)

	token, err := c.scan(ctx)
	if err != nil {
		return internal.ZeroValue[T](), err
	}

	v, err := c.parse(token)
	if err != nil {
		fmt.Fprintf(c.out, "invalid input %q\n", token)

		return internal.ZeroValue[T](), handoff.NewInputError[T](token, err)
	}

	return v, nil
}

// Asks whether to continue. Only "y" continues.
func (c *Console[T]) Continue(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprint(c.out, continuePrompt)

	token, err := c.scan(ctx)
	if err != nil {
		return false, err
	}

	return token == "y", nil
}

// Prints the result.
func (c *Console[T]) Consume(v T) {
	fmt.Fprintf(c.out, "z = %v\n", v)
}

// scan asks the reader goroutine for one token and waits for it or for ctx.
func (c *Console[T]) scan(ctx context.Context) (string, error) {
	select {
	case <-c.done:
		return "", io.EOF
	default:
	}

	c.startOnce.Do(func() { go c.read() })

	if !c.pending {
		select {
		case c.requests <- struct{}{}:
			c.pending = true
		case <-c.done:
			return "", io.EOF
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	select {
	case r := <-c.results:
		c.pending = false

		return r.token, r.err
	case <-c.done:
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// read performs one scan per request; results has room for the one pending token.
func (c *Console[T]) read() {
	for {
		select {
		case <-c.done:
			return
		case <-c.requests:
		}

		if c.scanner.Scan() {
			c.results <- scanResult{token: c.scanner.Text()}

			continue
		}

		err := io.EOF
		if scanErr := c.scanner.Err(); scanErr != nil {
			err = fmt.Errorf("failed to read console: %w", scanErr)
		}

		c.results <- scanResult{err: err}
	}
}

// Parser for base 10 integers.
func Int(s string) (int, error) {
	return strconv.Atoi(s)
}

// Parser for floating point numbers.
func Float(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
