package ledger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/ironsheep/label-ocr/internal/extract"
)

// Outcome reports whether Writer.Save managed to persist a record.
type Outcome struct {
	Persisted bool
	Err       error
}

// Writer is the best-effort boundary around Append. Save never returns an
// error and never panics; failures are logged and reported in the Outcome.
type Writer struct {
	path     string
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithAttempts sets how many times Save tries Append before giving up.
// Values below 1 are treated as 1.
func WithAttempts(n uint) Option {
	return func(w *Writer) {
		if n < 1 {
			n = 1
		}
		w.attempts = n
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(w *Writer) { w.delay = d }
}

// WithLogger sets the logger used to report failed saves.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWriter returns a Writer for the ledger at path. By default Save makes a
// single attempt.
func NewWriter(path string, opts ...Option) *Writer {
	w := &Writer{
		path:     path,
		attempts: 1,
		delay:    100 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the ledger file path.
func (w *Writer) Path() string {
	return w.path
}

// Save appends rec to the ledger. Any error from opening, appending or
// saving the workbook is logged and returned in the Outcome instead of
// being propagated.
func (w *Writer) Save(rec extract.Record) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("ledger append panicked: %v", r)}
			w.logger.Error("error saving record to ledger", "path", w.path, "error", out.Err)
		}
	}()

	err := retry.Do(
		func() error { return Append(w.path, rec) },
		retry.Attempts(w.attempts),
		retry.Delay(w.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.logger.Warn("retrying ledger append", "path", w.path, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		w.logger.Error("error saving record to ledger", "path", w.path, "error", err)
		return Outcome{Err: err}
	}

	w.logger.Debug("record appended to ledger", "path", w.path, "batch_number", rec.BatchNumber)
	return Outcome{Persisted: true}
}
