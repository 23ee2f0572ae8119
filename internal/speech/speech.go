package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Recognizer captures one user utterance as text.
type Recognizer interface {
	Listen(ctx context.Context) (string, error)
}

// Synthesizer speaks a piece of text to the user.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// ConsoleIO implements both interfaces over a terminal, for development and
// headless deployments without an audio stack.
type ConsoleIO struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewConsoleIO(r io.Reader, w io.Writer) *ConsoleIO {
	return &ConsoleIO{reader: bufio.NewReader(r), writer: w}
}

func (c *ConsoleIO) Listen(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := c.reader.ReadString('\n')
		ch <- result{line, err}
	}()

	fmt.Fprint(c.writer, "> ")
	select {
	case res := <-ch:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *ConsoleIO) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintln(c.writer, text)
	return err
}
