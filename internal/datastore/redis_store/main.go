package redis_store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"boostpanel/internal/models"
)

// ErrQueueEmpty is returned when a blocking pop times out with no plan.
var ErrQueueEmpty = errors.New("plan queue empty")

func dbKeyPlanQueue() string {
	return "boost:plan_queue"
}

func dbKeyPlanQueueLength() string {
	return dbKeyPlanQueue()
}

// PushActionPlan appends a plan to the shared queue. Plans are produced once
// and consumed once; the list is the only hand-off between the rule engine
// and the dispatcher worker.
func PushActionPlan(ctx context.Context, cmd redis.Cmdable, plan *models.ActionPlan) error {
	payload, err := msgpack.Marshal(plan)
	if err != nil {
		return err
	}

	return cmd.RPush(ctx, dbKeyPlanQueue(), payload).Err()
}

// PopActionPlan blocks up to timeout waiting for the next plan.
func PopActionPlan(ctx context.Context, client redis.UniversalClient, timeout time.Duration) (*models.ActionPlan, error) {
	values, err := client.BLPop(ctx, timeout, dbKeyPlanQueue()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQueueEmpty
		}
		return nil, err
	}

	// BLPop returns [key, value]
	if len(values) < 2 {
		return nil, ErrQueueEmpty
	}

	var plan models.ActionPlan
	err = msgpack.Unmarshal([]byte(values[1]), &plan)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func PlanQueueLength(ctx context.Context, cmd redis.Cmdable) (int64, error) {
	return cmd.LLen(ctx, dbKeyPlanQueueLength()).Result()
}
