// Package aggregator reads the meetings of every calendar of one or more
// providers and merges them into a single list.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/identity"
	"github.com/guilherme-santos/calmeetings/internal/metrics"
	"github.com/guilherme-santos/calmeetings/internal/normalize"
)

const (
	DefaultTimeout = 15 * time.Second
	DefaultWorkers = 4
)

type Options struct {
	// Timeout bounds every call made to a provider.
	Timeout time.Duration
	// Workers is the number of calendars of a provider read at the same time.
	Workers int
	// RateLimits caps the requests per second sent to each provider. Missing
	// or zero entries mean no limit.
	RateLimits map[internal.ProviderKey]float64
}

// Query asks for the meetings of one provider, accessed with Token.
type Query struct {
	Provider internal.ProviderKey
	Token    string
}

type Request struct {
	ID      string
	Queries []Query
	Range   internal.DateRange
}

type Result struct {
	RequestID string                    `json:"request_id"`
	Meetings  []internal.Meeting        `json:"meetings"`
	Providers []internal.ProviderReport `json:"providers"`
}

type Aggregator struct {
	logger   *slog.Logger
	mux      internal.Mux
	timeout  time.Duration
	workers  int
	limiters map[internal.ProviderKey]*rate.Limiter
}

func New(logger *slog.Logger, mux internal.Mux, opts Options) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	limiters := make(map[internal.ProviderKey]*rate.Limiter)
	for key, rps := range opts.RateLimits {
		if rps > 0 {
			limiters[key] = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
	return &Aggregator{
		logger:   logger,
		mux:      mux,
		timeout:  opts.Timeout,
		workers:  opts.Workers,
		limiters: limiters,
	}
}

// Meetings runs every query of req and concatenates their meetings. It fails
// only when a query names an unknown provider, which is checked before any
// provider is contacted, or when ctx is done. Provider failures are reported
// in Result.Providers and contribute no meetings.
func (a *Aggregator) Meetings(ctx context.Context, req Request) (*Result, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	providers := make([]internal.Provider, len(req.Queries))
	for i, q := range req.Queries {
		p, err := a.mux.Get(q.Provider)
		if err != nil {
			return nil, err
		}
		providers[i] = p
	}

	logger := a.logger.With("request_id", req.ID)
	logger.Info("Fetching meetings", "providers", len(req.Queries), "range", describeRange(req.Range))

	res := &Result{
		RequestID: req.ID,
		Meetings:  []internal.Meeting{},
		Providers: make([]internal.ProviderReport, 0, len(req.Queries)),
	}
	for i, q := range req.Queries {
		meetings, report, err := a.fetch(ctx, logger, providers[i], q.Token, req.Range)
		if err != nil {
			return nil, err
		}
		res.Meetings = append(res.Meetings, meetings...)
		res.Providers = append(res.Providers, report)
	}

	logger.Info("Meetings fetched", "meetings", len(res.Meetings))
	return res, nil
}

// Fetch returns the meetings of every calendar of a single provider.
func (a *Aggregator) Fetch(ctx context.Context, key internal.ProviderKey, token string, r internal.DateRange) ([]internal.Meeting, internal.ProviderReport, error) {
	p, err := a.mux.Get(key)
	if err != nil {
		return nil, internal.ProviderReport{Provider: key}, err
	}
	return a.fetch(ctx, a.logger, p, token, r)
}

func (a *Aggregator) fetch(ctx context.Context, logger *slog.Logger, p internal.Provider, token string, r internal.DateRange) ([]internal.Meeting, internal.ProviderReport, error) {
	key := p.Schema().Key
	report := internal.ProviderReport{Provider: key}
	logger = logger.With(internal.CalendarAttrs(key, "")...)

	id, err := identity.FromToken(token)
	if err != nil {
		logger.Debug("Unable to read identity from token, every attendee is classified as other", "error", err)
	}

	calIDs, err := a.calendars(ctx, p, token)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, report, ctxErr
		}
		logger.Warn("Unable to get list of calendars", "error", err)
		report.AddError(err)
		return []internal.Meeting{}, report, nil
	}
	report.Calendars = len(calIDs)

	var (
		g       errgroup.Group
		results = make([][]internal.Meeting, len(calIDs))
		errs    = make([]error, len(calIDs))
	)
	g.SetLimit(a.workers)
	for i, calID := range calIDs {
		g.Go(func() error {
			events, err := a.events(ctx, p, token, calID, r)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = normalize.Events(key, calID, events, id.Domain, r)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	meetings := []internal.Meeting{}
	for i, calID := range calIDs {
		if errs[i] != nil {
			logger.Warn("Unable to get list of events", "calendar_id", calID, "error", errs[i])
			report.FailedCalendars++
			report.AddError(fmt.Errorf("calendar %s: %w", calID, errs[i]))
			continue
		}
		meetings = append(meetings, results[i]...)
	}
	report.Meetings = len(meetings)
	metrics.MeetingsReturned.WithLabelValues(key.String()).Add(float64(len(meetings)))

	logger.Debug("Provider done", "calendars", report.Calendars, "failed_calendars", report.FailedCalendars, "meetings", report.Meetings)
	return meetings, report, nil
}

func (a *Aggregator) calendars(ctx context.Context, p internal.Provider, token string) ([]string, error) {
	var ids []string
	err := a.call(ctx, p.Schema().Key, "list_calendars", func(ctx context.Context) (err error) {
		ids, err = p.Calendars(ctx, token)
		return err
	})
	return ids, err
}

func (a *Aggregator) events(ctx context.Context, p internal.Provider, token, calendarID string, r internal.DateRange) ([]*internal.Event, error) {
	var events []*internal.Event
	err := a.call(ctx, p.Schema().Key, "list_events", func(ctx context.Context) (err error) {
		events, err = p.Events(ctx, token, calendarID, r)
		return err
	})
	return events, err
}

// call paces and bounds a single provider call, recording its outcome.
func (a *Aggregator) call(ctx context.Context, key internal.ProviderKey, op string, fn func(context.Context) error) error {
	if l, ok := a.limiters[key]; ok {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	metrics.UpstreamDuration.WithLabelValues(key.String(), op).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues(key.String(), op, metrics.Result(err)).Inc()
	return err
}
