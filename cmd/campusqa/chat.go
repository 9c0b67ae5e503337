package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/campusqa"
)

// Run executes the chat command: a read-answer loop on the terminal until
// "exit", end of input or interrupt.
func (c *ChatCmd) Run(deps *Dependencies) error {
	fmt.Fprintln(deps.Stdout, `Ask about the college. Type "exit" to quit.`)
	lines := scanLines(deps.Stdin)

	for {
		fmt.Fprint(deps.Stdout, "\nYou: ")

		var line string
		select {
		case <-deps.Ctx.Done():
			fmt.Fprintln(deps.Stdout)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(deps.Stdout)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		start := time.Now()
		answer, err := deps.Asker.Ask(deps.Ctx, line)
		if err != nil {
			if deps.Ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "(retrieved %d chunks in %s)\n", len(answer.Sources), time.Since(start).Round(time.Millisecond))

		fmt.Fprint(deps.Stdout, "Assistant: ")
		if err := writeAnswer(deps.Stdout, answer); err != nil {
			if deps.Ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
			continue
		}
		writeSources(deps.Stdout, answer.Sources)
	}
}
