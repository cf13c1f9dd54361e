// Package llm wraps the Gemini API behind a small streaming interface.
// Streaming lets itinerary text reach the browser token by token instead of
// after a long blank wait; the handler relays fragments as they arrive.
package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Chunk is a single text fragment from a streaming generation call.
// Err is set instead of Text when the stream fails after it has started;
// the channel is closed right after an error chunk.
type Chunk struct {
	Text string
	Err  error
}

// Generator is the interface the HTTP layer depends on. Defining it here
// lets handler tests inject a scripted generator without the SDK.
type Generator interface {
	// GenerateStream issues one streaming generation call for prompt.
	// The returned channel emits fragments in arrival order and is closed
	// when the upstream stream is exhausted. An error on the initial call
	// (after retries) is returned directly; later failures arrive as an
	// error Chunk.
	GenerateStream(ctx context.Context, prompt string) (<-chan Chunk, error)
}

// upstream is one streaming call in progress. Next returns the next text
// fragment; ok is false once the stream is exhausted.
type upstream interface {
	Next() (text string, ok bool, err error)
	Close()
}

// startFunc issues a single upstream call. Swapped out in tests.
type startFunc func(ctx context.Context, prompt string) upstream

// Client calls the Gemini API with bounded retry on transient failures.
// Construct once at process start and share across requests.
type Client struct {
	model      string
	maxRetries int
	start      startFunc
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client for the given API key and model tier.
// maxRetries bounds attempts of the initial streaming call (minimum 1).
func NewClient(ctx context.Context, apiKey, model string, maxRetries int) (*Client, error) {
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm.NewClient: %w", err)
	}

	c := &Client{model: model, maxRetries: maxRetries, sleep: sleepCtx}
	c.start = func(ctx context.Context, prompt string) upstream {
		seq := sdk.Models.GenerateContentStream(ctx, c.model, genai.Text(prompt), nil)
		next, stop := iter.Pull2(seq)
		return &sdkStream{next: next, stop: stop}
	}
	return c, nil
}

// GenerateStream starts a generation call, retrying the initial call on
// overload (exponential backoff: 2s, 4s, ...) and rate-limit (fixed 60s)
// errors. Non-retryable errors propagate on first occurrence; exhausting
// all attempts returns ErrMaxRetries wrapping the last error.
//
// The call is considered established once the first fragment (or a clean
// end of stream) is observed, so retries never duplicate delivered text.
func (c *Client) GenerateStream(ctx context.Context, prompt string) (<-chan Chunk, error) {
	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var (
		st    upstream
		first string
		more  bool
	)
	for attempt := 0; ; attempt++ {
		st = c.start(ctx, prompt)

		var err error
		first, more, err = st.Next()
		if err == nil {
			break
		}
		st.Close()

		kind := classify(err)
		if kind == errOther {
			return nil, err
		}
		if attempt == attempts-1 {
			return nil, fmt.Errorf("%w: %w", ErrMaxRetries, err)
		}
		if serr := c.sleep(ctx, backoffFor(kind, attempt)); serr != nil {
			return nil, serr
		}
	}

	ch := make(chan Chunk)
	go func() {
		defer close(ch)
		defer st.Close()

		if !more {
			return
		}
		if first != "" && !send(ctx, ch, Chunk{Text: first}) {
			return
		}
		for {
			text, ok, err := st.Next()
			if err != nil {
				send(ctx, ch, Chunk{Err: err})
				return
			}
			if !ok {
				return
			}
			if text == "" {
				continue
			}
			if !send(ctx, ch, Chunk{Text: text}) {
				return
			}
		}
	}()
	return ch, nil
}

// backoffFor returns the wait before the attempt following failed attempt
// number `attempt` (0-based): overload doubles from 2s, rate limits wait a
// fixed 60s since quota windows are minute-granular.
func backoffFor(kind errorKind, attempt int) time.Duration {
	if kind == errRateLimited {
		return rateLimitWait
	}
	return time.Duration(1<<(attempt+1)) * time.Second
}

// send delivers a chunk unless the caller has gone away.
func send(ctx context.Context, ch chan<- Chunk, c Chunk) bool {
	select {
	case ch <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sdkStream adapts the SDK's push iterator to the pull-based upstream
// interface so the retry loop can probe the first fragment.
type sdkStream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
}

func (s *sdkStream) Next() (string, bool, error) {
	resp, err, ok := s.next()
	if !ok {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return extractText(resp), true, nil
}

func (s *sdkStream) Close() { s.stop() }

// extractText concatenates the text parts of all candidates.
func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}
