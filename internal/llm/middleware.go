package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/sirupsen/logrus"
)

// NOTE: LLM requests/responses are visible in the Genkit DevUI:
// genkit start -- go run ./cmd serve

const maxRetryDelay = 30 * time.Second

// permanentFailures are provider errors a retry cannot fix.
var permanentFailures = []string{
	"API key not valid",
	"API_KEY_INVALID",
	"PERMISSION_DENIED",
	"invalid_api_key",
}

func isPermanent(err error) bool {
	msg := err.Error()
	for _, s := range permanentFailures {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// RetryMiddleware retries failed model calls with exponential backoff (1s → 2s → 4s, capped at 30s).
// Credential errors are returned immediately.
func RetryMiddleware(log logrus.FieldLogger, maxAttempts int, initialDelay time.Duration) ai.ModelMiddleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return func(next ai.ModelFunc) ai.ModelFunc {
		return func(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
			var lastErr error

			for attempt := 1; attempt <= maxAttempts; attempt++ {
				resp, err := next(ctx, req, cb)
				if err == nil {
					if attempt > 1 {
						log.Infof("✅ LLM retry succeeded on attempt %d/%d", attempt, maxAttempts)
					}
					return resp, nil
				}

				lastErr = err

				if isPermanent(err) {
					log.WithError(err).Error("❌ LLM rejected credentials, not retrying")
					return nil, err
				}

				if attempt == maxAttempts {
					log.WithError(err).Errorf("❌ LLM: all %d attempts exhausted", maxAttempts)
					break
				}

				delay := initialDelay * time.Duration(1<<uint(attempt-1))
				if delay > maxRetryDelay {
					delay = maxRetryDelay
				}

				log.WithError(err).Warnf("⚠️ LLM error on attempt %d/%d, retrying in %v", attempt, maxAttempts, delay)

				select {
				case <-ctx.Done():
					return nil, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
				case <-time.After(delay):
				}
			}

			return nil, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
		}
	}
}
