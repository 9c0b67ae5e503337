package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/campusqa"
	main "github.com/fwojciec/campusqa/cmd/campusqa"
	"github.com/fwojciec/campusqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("answers until exit", func(t *testing.T) {
		t.Parallel()

		var questions []string
		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string) (*campusqa.Answer, error) {
				questions = append(questions, question)
				return &campusqa.Answer{
					Sources:   []campusqa.SearchResult{source("https://example.edu/canteen")},
					Fragments: streamOf("Answer to "+question, campusqa.EndOfStream),
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("Where is the canteen?\n\nexit\nnever asked\n"),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Asker:  asker,
		}

		require.NoError(t, (&main.ChatCmd{}).Run(deps))

		assert.Equal(t, []string{"Where is the canteen?"}, questions)
		assert.Contains(t, stdout.String(), "(retrieved 1 chunks in")
		assert.Contains(t, stdout.String(), "Assistant: Answer to Where is the canteen?")
		assert.Contains(t, stdout.String(), "https://example.edu/canteen")
	})

	t.Run("keeps going after a failed question", func(t *testing.T) {
		t.Parallel()

		calls := 0
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdin:  strings.NewReader("first\nsecond\n"),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Asker: &mock.Asker{
				AskFn: func(_ context.Context, question string) (*campusqa.Answer, error) {
					calls++
					if question == "first" {
						return nil, campusqa.Errorf(campusqa.ENETWORK, "embedding unavailable")
					}
					return &campusqa.Answer{Fragments: streamOf("ok", campusqa.EndOfStream)}, nil
				},
			},
		}

		require.NoError(t, (&main.ChatCmd{}).Run(deps))

		assert.Equal(t, 2, calls)
		assert.Contains(t, stderr.String(), "embedding unavailable")
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		deps := &main.Dependencies{
			Ctx:    ctx,
			Stdin:  blockingReader{},
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Asker:  &mock.Asker{},
		}

		assert.NoError(t, (&main.ChatCmd{}).Run(deps))
	})
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
