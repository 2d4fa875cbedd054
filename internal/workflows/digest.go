package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

// DigestInput is the input for the spot digest workflow.
type DigestInput struct {
	SpotID string
	UserID string
}

// SpotDigestWorkflow builds a spot's daily digest, records it, and pushes it
// to a follower. If the push fails after retries, the digest record is
// deleted so the follower can be retried from scratch tomorrow (saga
// compensation).
func SpotDigestWorkflow(ctx workflow.Context, input DigestInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting spot digest workflow", "spotID", input.SpotID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Compose the digest from the current aggregation
	var digest domain.SpotDigest
	err := workflow.ExecuteActivity(ctx, "BuildSpotDigest", input.SpotID).Get(ctx, &digest)
	if err != nil {
		return err
	}

	// Step 2: Record delivery so the same follower is not notified twice
	var recordKey string
	err = workflow.ExecuteActivity(ctx, "RecordDigest", input.UserID, digest).Get(ctx, &recordKey)
	if err != nil {
		return err
	}

	// Step 3: Push to the follower
	err = workflow.ExecuteActivity(ctx, "SendDigestPush", input.UserID, digest).Get(ctx, nil)
	if err != nil {
		logger.Warn("digest push failed, compensating", "error", err)
		// Compensate: drop the delivery record
		_ = workflow.ExecuteActivity(ctx, "DeleteDigestRecord", recordKey).Get(ctx, nil)
		return err
	}

	logger.Info("Spot digest sent", "spotID", input.SpotID, "userID", input.UserID)
	return nil
}
