package source

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	decreaseFactor = 0.8 // Reduce aggressively on failure
	increaseFactor = 0.2 // Increase conservatively on success
	minLimit       = 1   // Minimum requests per second
)

type AdaptiveRateLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	limiter     *rate.Limiter
	maxIncrease rate.Limit
}

func (a *AdaptiveRateLimiter) Fail() {
	a.mu.Lock()
	defer a.mu.Unlock()

	newLimit := max(rate.Limit(float64(a.limit)*(1-decreaseFactor)), minLimit)
	a.setLimit(newLimit)
}

func (a *AdaptiveRateLimiter) Succeed() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Increase limit more conservatively, up to maxIncrease
	newLimit := min(rate.Limit(float64(a.limit)*(1+increaseFactor)), a.limit+a.maxIncrease)

	a.setLimit(newLimit)
}

func (a *AdaptiveRateLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

func (a *AdaptiveRateLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.limit
}

func (a *AdaptiveRateLimiter) setLimit(newLimit rate.Limit) {
	a.limit = newLimit
	a.limiter.SetLimit(a.limit)
}

func NewAdaptiveRateLimiter(startingLimit rate.Limit, startingBurst int, maxIncrease rate.Limit) *AdaptiveRateLimiter {
	return &AdaptiveRateLimiter{
		limit:       startingLimit,
		burst:       startingBurst,
		limiter:     rate.NewLimiter(startingLimit, startingBurst),
		mu:          sync.Mutex{},
		maxIncrease: maxIncrease,
	}
}

type RateLimiter interface {
	Succeed()
	Fail()
	Wait(context.Context) error
}

type rateLimitedRoundTripper struct {
	transport http.RoundTripper
	limiter   RateLimiter
}

func (rt *rateLimitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := rt.transport.RoundTrip(req)
	if err != nil {
		rt.limiter.Fail()
		return nil, err
	}

	if resp.StatusCode >= 400 {
		rt.limiter.Fail()
	} else {
		rt.limiter.Succeed()
	}

	return resp, nil
}

func addRateLimiter(client *http.Client, limiter RateLimiter) {
	rt := &rateLimitedRoundTripper{
		limiter: limiter,
	}
	if client.Transport == nil {
		rt.transport = http.DefaultTransport
	} else {
		rt.transport = client.Transport
	}
	client.Transport = rt
}

// retryablehttp hands hooks a wrapper instead of the logger it was given so
// the hooks close over the entry instead
func retryLog(logger *log.Entry) retryablehttp.RequestLogHook {
	return func(_ retryablehttp.Logger, req *http.Request, retryCount int) {
		if retryCount == 0 {
			return
		}
		logger.Warnf("try %d for %s: %s", retryCount, req.Method, req.URL)
	}
}

func responseLog(logger *log.Entry) retryablehttp.ResponseLogHook {
	return func(_ retryablehttp.Logger, res *http.Response) {
		logger.Tracef("%s: %s", res.Status, res.Request.URL)
	}
}

type RetryOptions struct {
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// NewRetryClientWithLimiter returns a plain http.Client that retries
// connection errors and 5xx responses and waits on limiter before every try
func NewRetryClientWithLimiter(logger *log.Entry, limiter RateLimiter, opts RetryOptions) *http.Client {
	client := retryablehttp.NewClient()
	var l retryablehttp.LeveledLogger = LogrusLogger{Entry: logger}
	client.Logger = l
	client.RetryMax = opts.Retries
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}

	client.ResponseLogHook = responseLog(logger)
	client.RequestLogHook = retryLog(logger)
	// the limiter sits under the retries so every attempt is paced
	addRateLimiter(client.HTTPClient, limiter)
	return client.StandardClient()
}

// wrapper make the logrus logger a LeveledLogger
type LogrusLogger struct {
	Entry *log.Entry
}

func (l LogrusLogger) withPairs(keysAndValues []any) *log.Entry {
	fields := log.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return l.Entry.WithFields(fields)
}

func (l LogrusLogger) Error(msg string, keysAndValues ...any) {
	l.withPairs(keysAndValues).Error(msg)
}

func (l LogrusLogger) Info(msg string, keysAndValues ...any) {
	l.withPairs(keysAndValues).Info(msg)
}

// retryablehttp logs every request at debug, that is trace for us
func (l LogrusLogger) Debug(msg string, keysAndValues ...any) {
	l.withPairs(keysAndValues).Trace(msg)
}

func (l LogrusLogger) Warn(msg string, keysAndValues ...any) {
	l.withPairs(keysAndValues).Warn(msg)
}
