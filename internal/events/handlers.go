package events

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

// OrderCompletedHandler returns a handler for order.completed events. It
// flips the order to completed and records the discount redemption, once.
// Duplicate deliveries are cut off twice: by the sequence checkpoint for
// enveloped messages, and by the pending->completed status transition for
// everything else.
func OrderCompletedHandler(
	db *sql.DB,
	orders order.Repository,
	discounts discount.Repository,
	checkpoints dedup.Repository,
	logger *log.Logger,
) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		orderID, seq, err := ParseOrderCompleted(body)
		if err != nil {
			return err
		}

		if seq != nil {
			last, seen, err := checkpoints.GetLastSequence(ctx, consumerName, orderID)
			if err != nil {
				return fmt.Errorf("load checkpoint: %w", err)
			}
			if seen && *seq <= last {
				logger.Printf("skipping duplicate order.completed for %s (seq %d <= %d)", orderID, *seq, last)
				return nil
			}
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback()

		state, err := orders.CompleteTx(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("complete order: %w", err)
		}

		if seq != nil {
			if err := checkpoints.UpsertLastSequence(ctx, tx, consumerName, orderID, *seq); err != nil {
				return fmt.Errorf("save checkpoint: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}

		if !state.Completed {
			logger.Printf("order %s already completed, nothing to do", orderID)
			return nil
		}

		if state.DiscountCode != "" {
			// The completion already committed; a failed usage bump is
			// logged rather than retried via redelivery.
			if err := discounts.RecordUsage(ctx, state.DiscountCode); err != nil {
				logger.Printf("record usage for %s on order %s: %v", state.DiscountCode, orderID, err)
			}
		}

		logger.Printf("order %s completed for user %s", orderID, state.UserID)
		return nil
	}
}
