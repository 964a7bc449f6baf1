package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/lachiem1/meterUp/internal/billing"
)

const (
	defaultRangeWorkers = 4
	maxRangeMonths      = 36
)

var (
	// ErrRangeOrder is returned when a range ends before it starts.
	ErrRangeOrder = errors.New("range end is before range start")
	// ErrRangeTooLarge is returned for ranges longer than maxRangeMonths.
	ErrRangeTooLarge = fmt.Errorf("range exceeds %d months", maxRangeMonths)
)

// RangeItem is one month of a range fetch.
type RangeItem struct {
	Period     billing.Period
	Identifier string
	Result     billing.LookupResult
}

// FetchRange looks up every month from..to (inclusive) for account using a
// bounded worker pool. It does not touch the session; items are returned in
// calendar order.
func (e *Engine) FetchRange(ctx context.Context, account string, from, to billing.Period, workers int) ([]RangeItem, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, ErrMissingAccount
	}
	months := monthsBetween(from, to)
	if months < 1 {
		return nil, ErrRangeOrder
	}
	if months > maxRangeMonths {
		return nil, ErrRangeTooLarge
	}

	items := make([]RangeItem, months)
	for i := range items {
		period := from.Step(i)
		identifier, err := period.Identifier(account)
		if err != nil {
			return nil, err
		}
		items[i] = RangeItem{Period: period, Identifier: identifier}
	}

	if workers <= 0 {
		workers = defaultRangeWorkers
	}
	results, err := fetchAllByIndex(ctx, len(items), workers, func(ctx context.Context, i int) (billing.LookupResult, error) {
		env := billing.BuildEnvelope(items[i].Identifier, e.billerCode, e.now)
		req := Request{Identifier: items[i].Identifier, Period: items[i].Period, Envelope: env}
		return e.Execute(ctx, req), nil
	})
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Result = results[i]
	}
	return items, nil
}

// SumTotals adds the Total Amount of every found bill. Values that are not
// decimal numbers are skipped and counted.
func SumTotals(items []RangeItem) (total decimal.Decimal, skipped int) {
	total = decimal.Zero
	for _, item := range items {
		if item.Result.Outcome != billing.OutcomeFound {
			continue
		}
		raw := strings.ReplaceAll(strings.TrimSpace(item.Result.Record.TotalAmount.String()), ",", "")
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			skipped++
			continue
		}
		total = total.Add(amount)
	}
	return total, skipped
}

func monthsBetween(from, to billing.Period) int {
	return (to.Year*12 + to.Month) - (from.Year*12 + from.Month) + 1
}

// fetchAllByIndex executes fetch concurrently for indexes 0..n-1 using a
// bounded worker pool and returns results in index order.
func fetchAllByIndex[T any](
	ctx context.Context,
	n int,
	workers int,
	fetch func(context.Context, int) (T, error),
) ([]T, error) {
	if n == 0 {
		return []T{}, nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	out := make([]T, n)

	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			if ctx.Err() != nil {
				return
			}
			v, err := fetch(ctx, i)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				errMu.Unlock()
				return
			}
			out[i] = v
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	errMu.Lock()
	err := firstErr
	errMu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
