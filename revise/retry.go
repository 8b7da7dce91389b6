package revise

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// MaxRetries 是单次校对最多发出的请求数。
const MaxRetries = 3

// RetryableError 表示上游的临时失败（429 或 5xx）。
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff 返回第 attempt 次（从 0 开始）重试前的等待时间，带随机抖动。
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * backoffUnit
	if base > 30*backoffUnit {
		base = 30 * backoffUnit
	}
	jitter := time.Duration(rand.Int64N(int64(base)/2 + 1))
	return base + jitter
}

// backoffUnit 在测试中被缩短。
var backoffUnit = time.Second
