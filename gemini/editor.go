package gemini

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Youngleechen/writeedit"
)

// Compile-time interface verification.
var _ writeedit.Editor = (*Editor)(nil)

// DefaultChunkSize is the input size above which a document is split on
// paragraph boundaries and edited in concurrent chunks.
const DefaultChunkSize = 8 * 1024

// maxConcurrentChunks bounds in-flight chunk requests.
const maxConcurrentChunks = 4

const systemPrompt = `You are a text editor. Apply the user's instruction to the text they provide.

Respond with the edited text only: no preamble, no commentary, no markdown fences. Preserve the paragraph structure and whitespace of the input except where the instruction requires changing it.`

// Editor implements writeedit.Editor using Google Gemini.
type Editor struct {
	client    GenerativeClient
	model     string
	limiter   *rate.Limiter
	chunkSize int
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithChunkSize overrides the size above which inputs are chunked.
func WithChunkSize(n int) EditorOption {
	return func(e *Editor) {
		e.chunkSize = n
	}
}

// WithRateLimit sets the request rate limit in requests per second.
func WithRateLimit(rps float64) EditorOption {
	return func(e *Editor) {
		e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewEditor creates a new Editor.
func NewEditor(client GenerativeClient, model string, opts ...EditorOption) *Editor {
	e := &Editor{
		client:    client,
		model:     model,
		limiter:   rate.NewLimiter(rate.Limit(2), 1),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Edit applies the instruction to the text and returns the edited version.
// Oversized inputs are split on paragraph boundaries, edited concurrently,
// and rejoined in order.
func (e *Editor) Edit(ctx context.Context, text, instruction string) (string, error) {
	if len(text) <= e.chunkSize {
		return e.editChunk(ctx, text, instruction)
	}

	chunks := splitChunks(text, e.chunkSize)
	results := make([]string, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChunks)
	for i, chunk := range chunks {
		g.Go(func() error {
			edited, err := e.editChunk(ctx, chunk, instruction)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i+1, err)
			}
			results[i] = edited
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(results, ""), nil
}

func (e *Editor) editChunk(ctx context.Context, text, instruction string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Instruction: ")
	sb.WriteString(instruction)
	sb.WriteString("\n\nText:\n")
	sb.WriteString(text)

	temp := float32(0.2)
	resp, err := e.client.GenerateContent(ctx, e.model,
		[]*Content{{Parts: []*Part{{Text: sb.String()}}}},
		&GenerateContentConfig{
			SystemInstruction: &Content{Parts: []*Part{{Text: systemPrompt}}},
			Temperature:       &temp,
		})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: returned nil response")
	}
	return resp.Text, nil
}

// splitChunks splits text into chunks of at most max bytes, preferring
// paragraph boundaries and falling back to word boundaries for oversized
// paragraphs. Concatenating the chunks reproduces the input.
func splitChunks(text string, max int) []string {
	var chunks []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, para := range strings.SplitAfter(text, "\n\n") {
		if len(para) > max {
			flush()
			for _, word := range strings.SplitAfter(para, " ") {
				if cur.Len() > 0 && cur.Len()+len(word) > max {
					flush()
				}
				cur.WriteString(word)
			}
			flush()
			continue
		}
		if cur.Len() > 0 && cur.Len()+len(para) > max {
			flush()
		}
		cur.WriteString(para)
	}
	flush()

	return chunks
}
