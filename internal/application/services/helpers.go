package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/ports"
	"github.com/summitcrest/realty/pkg/errors"
	"go.uber.org/zap"
)

// maxExportPage matches the repository page cap
const maxExportPage = 500

// Column widths from the SQL schema, in characters
const (
	maxNameColumn  = 255
	maxPhoneColumn = 64
	maxRefColumn   = 128
)

// checkLength rejects values wider than their column, counted in runes as
// VARCHAR widths are
func checkLength(field, label, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return errors.NewValidationError(field, fmt.Sprintf("%s must be at most %d characters", label, limit))
	}
	return nil
}

// publish hands an event to the bus after the write it describes succeeded.
// Subscriber failures are logged, never surfaced to the caller.
func publish(ctx context.Context, events ports.EventPublisher, event domain.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		zap.L().Warn("⚠️ Event subscriber failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
