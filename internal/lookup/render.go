package lookup

import (
	"go.uber.org/zap"

	"github.com/lachiem1/meterUp/internal/billing"
)

// View is everything the presentation layer needs after a fetch.
type View struct {
	PeriodLabel    string
	SummaryVisible bool
	DataError      bool
	NavEnabled     bool
	Rows           []billing.Row
	Outcome        billing.Outcome
	Reason         error
}

// Apply validates result and updates the session. It returns false, leaving
// everything untouched, when req has been superseded by a newer request.
func (e *Engine) Apply(req Request, result billing.LookupResult) (View, bool) {
	if !e.session.Current(req.Token) {
		e.logger.Debug("dropping stale bill response",
			zap.String("identifier", req.Identifier),
			zap.Uint64("token", uint64(req.Token)),
		)
		return View{}, false
	}

	view := View{
		PeriodLabel: req.Period.Label(),
		Outcome:     result.Outcome,
		Reason:      result.Reason,
	}

	switch result.Outcome {
	case billing.OutcomeFound:
		if !e.session.SetIfCurrent(req.Token, result.Record, req.Period) {
			return View{}, false
		}
		view.SummaryVisible = true
		view.Rows = billing.SummaryRows(result.Record)
	default:
		// Not found and failed fetches render the same way.
		view.DataError = true
	}

	_, view.NavEnabled = e.session.Get()
	return view, true
}
