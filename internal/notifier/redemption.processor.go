package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	gateway "github.com/nidhishshastri/loyalty-gateway/internal/gateways"
	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/internal/queue"
	"github.com/nidhishshastri/loyalty-gateway/pkg/logger"
	"github.com/nidhishshastri/loyalty-gateway/pkg/prom"
)

// RedemptionProcessor turns committed redemption events into confirmation
// SMS messages. Redis-backed idempotency keeps replays and concurrent
// consumers from texting a customer twice for the same redemption.
type RedemptionProcessor struct {
	client      *gateway.Client
	idempotency *IdempotencyService
}

func NewRedemptionProcessor(client *gateway.Client, idempotency *IdempotencyService) *RedemptionProcessor {
	return &RedemptionProcessor{
		client:      client,
		idempotency: idempotency,
	}
}

func (p *RedemptionProcessor) GetType() string {
	return "redemption"
}

// Process sends the confirmation SMS for one committed redemption.
func (p *RedemptionProcessor) Process(ctx context.Context, queueMessage *queue.Message) error {
	// Step 1: Parse event
	var event model.RedemptionEvent
	if err := json.Unmarshal(queueMessage.Data, &event); err != nil {
		logger.Error("Failed to unmarshal redemption event", "error", err)
		prom.IncRedemptionNotified("invalid")
		return err // Return error to trigger DLQ move
	}

	eventID := strconv.FormatInt(event.RedemptionID, 10)

	// Step 2: Acquire processing lock and check idempotency
	procCtx, err := p.idempotency.AcquireProcessingLock(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			// Event already handled - ACK to remove from the stream
			logger.Info("Redemption already notified, skipping", "redemption_id", eventID)
			return nil
		}
		if errors.Is(err, ErrMaxRetriesExceeded) {
			// Max retries exceeded - give up and ACK
			logger.Error("Max retries exceeded", "redemption_id", eventID)
			prom.IncRedemptionNotified("abandoned")
			return nil // ACK to move to DLQ
		}
		if errors.Is(err, ErrLockAcquireFailed) {
			// Another consumer is processing - NACK to retry later
			logger.Info("Lock held by another consumer, will retry", "redemption_id", eventID)
			return errors.New("lock held by another consumer")
		}
		// Unexpected error - NACK to retry
		logger.Error("Failed to acquire lock", "redemption_id", eventID, "error", err)
		return err
	}

	// Ensure lock is released on exit (if not already marked success/failure)
	defer func() {
		if procCtx.lockAcquired {
			p.idempotency.ReleaseLock(ctx, procCtx)
		}
	}()

	logger.Info("Notifying redemption",
		"redemption_id", eventID,
		"mobile", event.Mobile,
		"gift", event.GiftName,
		"retry_count", procCtx.RetryCount,
		"is_retry", procCtx.IsRetry)

	// Step 3: Send confirmation SMS to provider
	req := &gateway.SendRequest{
		NotificationID: eventID,
		PhoneNumber:    event.Mobile,
		Content:        confirmationText(event),
	}

	res, err := p.client.SendSMS(ctx, req)
	if err != nil {
		// Step 4a: Sending failed - mark failure and retry
		logger.Error("Failed to send confirmation SMS", "redemption_id", eventID, "error", err)
		if markErr := p.idempotency.MarkFailure(ctx, procCtx, err); markErr != nil {
			logger.Error("Failed to mark failure", "redemption_id", eventID, "error", markErr)
		}
		return err // NACK to retry from queue
	}

	// Step 4b: Sending succeeded - mark success
	logger.Info("Confirmation SMS sent",
		"redemption_id", eventID,
		"mobile", event.Mobile,
		"status", res.Status,
		"retry_count", procCtx.RetryCount)

	if res.Status == gateway.StatusDelivered {
		if res.DeliveredAt != nil {
			prom.AddRedemptionNotifyDuration(
				res.DeliveredAt.Sub(event.CommittedAt).Seconds(),
				res.ProviderID,
			)
		}
		prom.IncRedemptionNotified("delivered")

		// Mark as successfully processed (sets 24-hour processed marker)
		if markErr := p.idempotency.MarkSuccess(ctx, procCtx); markErr != nil {
			logger.Error("Failed to mark success", "redemption_id", eventID, "error", markErr)
			// Continue - notification was delivered
		}

		return nil // ACK event
	}

	// Provider returned non-delivered status - treat as failure
	logger.Warn("Confirmation SMS not delivered", "redemption_id", eventID, "status", res.Status)
	if markErr := p.idempotency.MarkFailure(ctx, procCtx, errors.New("provider returned non-delivered status")); markErr != nil {
		logger.Error("Failed to mark failure", "redemption_id", eventID, "error", markErr)
	}
	return errors.New("failed to deliver confirmation")
}

func confirmationText(event model.RedemptionEvent) string {
	return fmt.Sprintf("You redeemed %s for %d points on %s. Remaining balance: %d points.",
		event.GiftName,
		event.PointsCost,
		event.CommittedAt.Format(time.DateOnly),
		event.PointsLeft)
}
