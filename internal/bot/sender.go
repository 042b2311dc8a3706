package bot

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hshehabu/salah-times/internal/logger"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after Close.
	ErrQueueClosed = errors.New("sender: queue closed")
	// ErrQueueFull indicates a saturated queue; the job was not accepted.
	ErrQueueFull = errors.New("sender: queue full")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

// DispatcherOptions controls the outbound send worker pool.
type DispatcherOptions struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

type sendJob struct {
	ctx    context.Context
	action string
	run    func() error
}

// Dispatcher executes outbound Telegram sends asynchronously with retry on
// transient network failures. Reminder fan-out and feedback forwards go
// through it so a slow send never blocks update handling.
type Dispatcher struct {
	opts DispatcherOptions
	jobs chan sendJob
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
	errs atomic.Uint64
}

// NewDispatcher starts a dispatcher, applying defaults to zeroed options.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	d := &Dispatcher{
		opts: opts,
		jobs: make(chan sendJob, opts.QueueSize),
		stop: make(chan struct{}),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue schedules run for asynchronous execution. The closure must be
// idempotent if retries are desired.
func (d *Dispatcher) Enqueue(ctx context.Context, action string, run func() error) error {
	if run == nil {
		return errors.New("sender: nil run function")
	}
	select {
	case <-d.stop:
		return ErrQueueClosed
	default:
	}

	select {
	case d.jobs <- sendJob{ctx: ctx, action: action, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of jobs that exhausted all attempts.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops accepting jobs and waits for queued work to drain.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.stop)
		close(d.jobs)
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handleJob(j)
	}
}

func (d *Dispatcher) handleJob(j sendJob) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	deadlineCtx, cancel := context.WithTimeout(ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	var lastErr error
	attempts := d.opts.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := deadlineCtx.Err(); err != nil {
			lastErr = err
			break
		}

		err := j.run()
		if err == nil {
			logger.Debug(ctx, "tg.sender", "send.success",
				slog.String("action", j.action),
				slog.Int("attempts", attempt),
				slog.Duration("duration", logger.RoundMS(time.Since(start))),
			)
			return
		}
		lastErr = err
		if !retryableSendError(err) || attempt == attempts {
			break
		}

		timer := time.NewTimer(d.opts.RetryBackoff * time.Duration(attempt))
		select {
		case <-deadlineCtx.Done():
			timer.Stop()
			lastErr = deadlineCtx.Err()
			attempt = attempts
		case <-timer.C:
		}
	}

	d.errs.Add(1)
	logger.Error(ctx, "tg.sender", "send.fail",
		slog.String("action", j.action),
		slog.Int("attempts", attempts),
		slog.String("err", redactToken(lastErr)),
		slog.String("err_kind", classifySendError(lastErr)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
}

// redactToken strips bot tokens from error text before logging. Telebot
// errors can embed the full API URL.
func redactToken(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot[REDACTED]")
}

func retryableSendError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Timeout() || opErr.Op == "dial") {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			return retryableSendError(urlErr.Err)
		}
	}
	return false
}

func classifySendError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "dial"
	}
	return "unknown"
}
