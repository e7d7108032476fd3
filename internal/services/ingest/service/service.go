// Package service implements the retrying run-payload uploader
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	snapcfg "snapgate/internal/config"
	perr "snapgate/internal/platform/errors"
	"snapgate/internal/platform/logger"
	capdom "snapgate/internal/services/capture/domain"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = time.Second
	maxBackoff       = 30 * time.Second
)

// Options configures the Sender
type Options struct {
	// URL of the collector endpoint. Empty disables uploads entirely
	URL string

	// Per-request client timeout
	Timeout time.Duration

	// Extra attempts after the first failed one. Negative is clamped to zero
	MaxRetries int

	// First backoff; doubles per retry up to a 30s cap
	RetryBase time.Duration
}

// FromProject maps the ingest section of a project config onto Options.
// The project defaults own the retry count, so an explicit zero survives
func FromProject(p *snapcfg.Config) Options {
	return Options{
		URL:        p.Ingest.URL,
		MaxRetries: p.Ingest.Retries,
	}
}

// Sender posts flushed run payloads to the collector
type Sender struct {
	http  *http.Client
	opts  Options
	log   *logger.Logger
	sleep func(time.Duration)
}

// New constructs a Sender with sane defaults
func New(o Options) *Sender {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	return &Sender{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   logger.Named("ingest"),
		sleep: time.Sleep,
	}
}

// Send implements domain.SenderPort. Any non-2xx status or transport error
// is retried with exponential backoff; the last error survives exhaustion
func (s *Sender) Send(ctx context.Context, run capdom.RunPayload) error {
	if s.opts.URL == "" {
		s.log.Debug().Str("run_id", run.RunID).Msg("no collector url configured, skipping upload")
		return nil
	}

	body, err := json.Marshal(run)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode run payload")
	}

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.URL, bytes.NewReader(body))
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "ingest new request failed")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.http.Do(req)
		if err == nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				_ = drainAndClose(resp.Body)
				s.log.Info().
					Str("run_id", run.RunID).
					Int("captures", len(run.Captures)).
					Int("attempt", attempts).
					Msg("run payload uploaded")
				return nil
			}
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			err = perr.Newf(perr.ErrorCodeUnavailable, "collector returned status %d body %s", resp.StatusCode, string(tail))
		} else {
			err = perr.Wrapf(err, perr.ErrorCodeUnavailable, "ingest post failed")
		}

		if !s.shouldRetry(attempts) {
			return err
		}
		back := s.backoff(attempts)
		s.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("ingest upload retrying")
		s.sleep(back)
		attempts++
	}
}

func (s *Sender) backoff(attempt int) time.Duration {
	ms := int64(s.opts.RetryBase / time.Millisecond)
	ms = ms << uint(attempt)
	if max := int64(maxBackoff / time.Millisecond); ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *Sender) shouldRetry(attempt int) bool {
	return attempt < s.opts.MaxRetries
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
