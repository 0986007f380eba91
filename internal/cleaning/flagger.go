package cleaning

import (
	"context"
	"fmt"
	"log/slog"

	"gamezone/pkg/contracts/domain"
)

// Flagger derives cross-field integrity flags. It is a detection signal
// only: rows are never discarded or corrected here.
type Flagger struct {
	logger *slog.Logger
}

// NewFlagger creates a consistency flagger.
func NewFlagger(logger *slog.Logger) *Flagger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flagger{logger: logger}
}

// Flag returns a new record set with the ship-before-purchase flag set on
// every record, plus a summary count of flagged rows. The flag is true only
// when both instants are present and shipment strictly precedes purchase;
// when either instant is missing the flag is false, not unknown. That policy
// matches the reference analysis exactly.
func (f *Flagger) Flag(ctx context.Context, set domain.RecordSet) (domain.RecordSet, FlagReport, error) {
	if set.Maturity != domain.MaturityCoerced {
		return domain.RecordSet{}, FlagReport{}, fmt.Errorf("flagger expects a coerced record set, got %s", set.Maturity)
	}

	var report FlagReport
	out := make([]domain.OrderRecord, len(set.Records))
	for i := range set.Records {
		record := set.Records[i]
		record.ShipBeforePurchase = record.ShipAt != nil &&
			record.PurchaseAt != nil &&
			record.ShipAt.Before(*record.PurchaseAt)
		if record.ShipBeforePurchase {
			report.ShipBeforePurchase++
		}
		out[i] = record
	}

	f.logger.InfoContext(ctx, "consistency flagging complete",
		slog.Int("records", len(out)),
		slog.Int("ship_before_purchase", report.ShipBeforePurchase))

	return domain.RecordSet{Records: out, Maturity: domain.MaturityClean}, report, nil
}
