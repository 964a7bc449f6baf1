package lookup

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lachiem1/meterUp/internal/billing"
)

// Navigate plans a fetch for the month before or after the displayed bill.
// The identifier is built from the displayed bill's account number, not the
// meter number typed into the form.
func (e *Engine) Navigate(dir Direction) (Request, error) {
	entry, ok := e.session.Get()
	if !ok {
		return Request{}, ErrNoSession
	}

	current, err := billing.ParsePeriodStart(entry.Record.PeriodStart.String())
	if err != nil {
		e.logger.Debug("falling back to displayed period",
			zap.String("period_start", entry.Record.PeriodStart.String()),
			zap.Error(err),
		)
		current = entry.Period
	}

	account := strings.TrimSpace(entry.Record.AccountNumber.String())
	if account == "" {
		return Request{}, ErrMissingAccount
	}

	next := current.Step(int(dir))
	identifier, err := next.Identifier(account)
	if err != nil {
		return Request{}, err
	}
	return e.plan(identifier, next, true), nil
}
