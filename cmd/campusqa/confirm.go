package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Confirmer = (*PromptConfirmer)(nil)

// PromptConfirmer asks the operator on the terminal before a URL is fetched.
// Only an explicit "y" or "yes" confirms; end of input declines.
type PromptConfirmer struct {
	lines <-chan string
	out   io.Writer
}

// NewPromptConfirmer reads answers from r and writes prompts to w.
func NewPromptConfirmer(r io.Reader, w io.Writer) *PromptConfirmer {
	return &PromptConfirmer{lines: scanLines(r), out: w}
}

// Confirm implements campusqa.Confirmer.
func (p *PromptConfirmer) Confirm(ctx context.Context, url string) (bool, error) {
	fmt.Fprintf(p.out, "Fetch %s? [y/N] ", url)
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return false, nil
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

// scanLines feeds r line by line into an unbuffered channel, so reads never
// run ahead of the consumer. The channel is closed at end of input.
func scanLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}
