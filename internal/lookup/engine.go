// Package lookup drives bill retrieval: it plans requests from the form or
// from relative month navigation, runs them through a Fetcher and applies the
// results to the session.
package lookup

//go:generate mockgen -source=engine.go -destination=mocks/lookup_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lachiem1/meterUp/internal/billing"
	"github.com/lachiem1/meterUp/internal/session"
)

// ResetLabel is the trigger label restored after a navigation fetch.
const ResetLabel = "Fetch Bills"

var (
	// ErrFormInvalid is returned when the form has not passed validation.
	ErrFormInvalid = errors.New("form fields are not valid")
	// ErrNoSession is returned when navigating before any bill was displayed.
	ErrNoSession = errors.New("no bill displayed yet")
	// ErrMissingAccount is returned when the displayed bill has no account number.
	ErrMissingAccount = errors.New("displayed bill has no account number")
)

// Fetcher performs one bill lookup. Implementations never return errors;
// failures are reported through billing.LookupResult.
type Fetcher interface {
	FetchBill(ctx context.Context, env billing.Envelope) billing.LookupResult
}

// Recorder is notified of every executed lookup.
type Recorder interface {
	RecordLookup(ctx context.Context, identifier string, period billing.Period, outcome billing.Outcome, at time.Time) error
}

// Direction is a relative month step.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Form is the validated input handed over by the form collaborator.
type Form struct {
	Month    string
	Year     string
	MeterNo  string
	AllValid bool
}

// Request is one planned fetch.
type Request struct {
	Token        session.Token
	Identifier   string
	Period       billing.Period
	Envelope     billing.Envelope
	Navigation   bool
	RestoreLabel string
}

// Restore returns the label the trigger should show once the request
// completes.
func (r Request) Restore(original string) string {
	if r.RestoreLabel != "" {
		return r.RestoreLabel
	}
	return original
}

// Options configures an Engine.
type Options struct {
	BillerCode string
	Now        func() time.Time
	Logger     *zap.Logger
	Recorder   Recorder
}

// Engine owns the request sequence and the bill session.
type Engine struct {
	fetcher    Fetcher
	session    *session.Store
	billerCode string
	now        func() time.Time
	logger     *zap.Logger
	recorder   Recorder
}

func New(fetcher Fetcher, store *session.Store, opts Options) *Engine {
	if store == nil {
		store = session.New()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	billerCode := opts.BillerCode
	if billerCode == "" {
		billerCode = billing.DefaultBillerCode
	}
	return &Engine{
		fetcher:    fetcher,
		session:    store,
		billerCode: billerCode,
		now:        now,
		logger:     logger,
		recorder:   opts.Recorder,
	}
}

// Session exposes the store the engine writes to.
func (e *Engine) Session() *session.Store {
	return e.session
}

// Submit plans a fetch for the form's month, year and meter number.
func (e *Engine) Submit(form Form) (Request, error) {
	if !form.AllValid {
		return Request{}, ErrFormInvalid
	}
	period, err := billing.NewPeriod(form.Month, form.Year)
	if err != nil {
		return Request{}, err
	}
	identifier, err := billing.BuildIdentifier(form.Month, form.Year, form.MeterNo)
	if err != nil {
		return Request{}, err
	}
	return e.plan(identifier, period, false), nil
}

// Execute performs the fetch for req. It blocks until the gateway returns.
func (e *Engine) Execute(ctx context.Context, req Request) billing.LookupResult {
	result := e.fetcher.FetchBill(ctx, req.Envelope)
	if e.recorder != nil {
		if err := e.recorder.RecordLookup(ctx, req.Identifier, req.Period, result.Outcome, e.now()); err != nil {
			e.logger.Warn("record lookup history failed",
				zap.String("identifier", req.Identifier),
				zap.Error(err),
			)
		}
	}
	return result
}

// Lookup runs Execute and Apply back to back.
func (e *Engine) Lookup(ctx context.Context, req Request) (View, bool) {
	return e.Apply(req, e.Execute(ctx, req))
}

func (e *Engine) plan(identifier string, period billing.Period, navigation bool) Request {
	req := Request{
		Token:      e.session.Begin(),
		Identifier: identifier,
		Period:     period,
		Envelope:   billing.BuildEnvelope(identifier, e.billerCode, e.now),
		Navigation: navigation,
	}
	if navigation {
		req.RestoreLabel = ResetLabel
	}
	return req
}
