package consumer

import (
	"context"
	"fmt"

	"salonhub/internal/loyalty/service"
	"salonhub/pkg/events"
	"salonhub/pkg/kafka"
	"salonhub/pkg/logger"
)

// NewBookingEventsHandler returns the handler the loyalty consumer runs
// for the bookings topic. Only booking.created events accrue points;
// everything else on the topic is acknowledged and skipped.
func NewBookingEventsHandler(svc service.LoyaltyService, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if msg.EventType() != events.TypeBookingCreated {
			log.Debug("Skipping event",
				"event_type", msg.EventType(),
				"event_id", msg.EventID(),
			)
			return nil
		}

		var payload events.BookingCreated
		if err := msg.DecodeValue(&payload); err != nil {
			// Malformed payloads never become processable; let the
			// consumer divert them to the DLQ without retrying.
			return fmt.Errorf("failed to decode booking.created payload: %w", err)
		}

		loyalty, err := svc.ApplyAccrual(ctx, payload.CustomerID, payload.TotalAmount)
		if err != nil {
			return fmt.Errorf("failed to accrue points for booking %s: %w", payload.BookingID, err)
		}

		log.Info("Processed booking.created event",
			"event_id", msg.EventID(),
			"booking_id", payload.BookingID,
			"customer_id", payload.CustomerID,
			"points", loyalty.Points,
			"tier", loyalty.Tier,
		)
		return nil
	}
}
