package gemini

import (
	"context"

	"github.com/fwojciec/campusqa"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the embedding model.
const DefaultEmbeddingModel = "gemini-embedding-001"

// Task types understood by the embedding model.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// MaxBatchSize is the largest number of texts sent in one request.
const MaxBatchSize = 100

var _ campusqa.Embedder = (*Embedder)(nil)

// Embedder implements campusqa.Embedder using the Gemini embedding API.
type Embedder struct {
	client     *genai.Client
	model      string
	taskType   string
	dimensions int32
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithEmbeddingModel overrides DefaultEmbeddingModel.
func WithEmbeddingModel(model string) EmbedderOption {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithTaskType sets the retrieval task the vectors are optimized for.
// Index documents with TaskRetrievalDocument and embed questions with
// TaskRetrievalQuery.
func WithTaskType(taskType string) EmbedderOption {
	return func(e *Embedder) {
		e.taskType = taskType
	}
}

// WithDimensions truncates output vectors to n dimensions.
func WithDimensions(n int32) EmbedderOption {
	return func(e *Embedder) {
		e.dimensions = n
	}
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		client:   client,
		model:    DefaultEmbeddingModel,
		taskType: TaskRetrievalDocument,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns one vector per text, in order. Inputs larger than
// MaxBatchSize are split across several requests.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if e.client == nil {
		return nil, campusqa.Errorf(campusqa.EINVALID, "gemini client required")
	}

	config := &genai.EmbedContentConfig{TaskType: e.taskType}
	if e.dimensions > 0 {
		config.OutputDimensionality = &e.dimensions
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxBatchSize {
		batch := texts[start:min(start+MaxBatchSize, len(texts))]

		contents := make([]*genai.Content, len(batch))
		for i, text := range batch {
			contents[i] = genai.NewContentFromText(text, genai.RoleUser)
		}

		resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
		if err != nil {
			return nil, campusqa.Errorf(campusqa.ENETWORK, "gemini embed: %w", err)
		}
		if resp == nil || len(resp.Embeddings) != len(batch) {
			return nil, campusqa.Errorf(campusqa.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(resp), len(batch))
		}
		for _, emb := range resp.Embeddings {
			vectors = append(vectors, emb.Values)
		}
	}
	return vectors, nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}
