package googleEmbedding

import (
	"context"
	"time"

	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"google.golang.org/genai"
)

// maxBatch is the most contents EmbedContent accepts in one request
const maxBatch = 100

var retryDelay = 5 * time.Second

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

// waitForRetry sleeps once after a quota error. It returns false when the
// error is not worth retrying or ctx ends first.
func waitForRetry(ctx context.Context, err error, log *logger_i.Logger) bool {
	if !llm.IsRateLimited(err) {
		return false
	}
	log.Warn("Rate limit hit, retrying", "delay", retryDelay, "error", err)
	select {
	case <-ctx.Done():
		return false
	case <-time.After(retryDelay):
		return true
	}
}

func collectValues(res *genai.EmbedContentResponse) [][]float32 {
	if res == nil {
		return nil
	}
	out := make([][]float32, 0, len(res.Embeddings))
	for _, e := range res.Embeddings {
		if e == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, e.Values)
	}
	return out
}
