package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate_RequiresClient(t *testing.T) {
	t.Parallel()

	gen := gemini.NewGenerator(nil, "")

	var errs []error
	for _, err := range gen.Generate(context.Background(), "When is convocation?") {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.Equal(t, campusqa.EINVALID, campusqa.ErrorCode(errs[0]))
	assert.Contains(t, campusqa.ErrorMessage(errs[0]), "client required")
}

func TestBuildConfig_SetsSystemInstruction(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "only on the context provided")
}

func TestBuildConfig_SetsTemperature(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.4, *config.Temperature, 0.001)
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("empty input needs no client", func(t *testing.T) {
		t.Parallel()

		vecs, err := gemini.NewEmbedder(nil).Embed(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, vecs)
	})

	t.Run("requires client", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewEmbedder(nil).Embed(context.Background(), []string{"fees"})

		require.Error(t, err)
		assert.Equal(t, campusqa.EINVALID, campusqa.ErrorCode(err))
	})
}
