package billapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/lachiem1/meterUp/internal/billing"
)

// FetchBill posts env and classifies the outcome. Transport faults, non-2xx
// statuses and undecodable bodies are logged and reported as billing.Failed;
// a body without biller info is billing.NotFound. It never returns an error.
func (c *Client) FetchBill(ctx context.Context, env billing.Envelope) billing.LookupResult {
	identifier := env.BillInfo.BillNumber

	var out billing.Response
	if err := c.postJSON(ctx, env, &out); err != nil {
		c.logger.Warn("bill fetch failed",
			zap.String("identifier", identifier),
			zap.String("endpoint", c.endpoint),
			zap.Error(err),
		)
		return billing.Failed(err)
	}
	if out.BillerInfo == nil {
		c.logger.Info("bill not found", zap.String("identifier", identifier))
		return billing.NotFound()
	}

	c.logger.Debug("bill fetched",
		zap.String("identifier", identifier),
		zap.String("period_start", out.BillerInfo.PeriodStart.String()),
	)
	return billing.Found(*out.BillerInfo)
}
