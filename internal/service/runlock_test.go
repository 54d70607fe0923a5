package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ajstars1/0unveiled-leaderboard/pkg/apperror"
)

func TestRunLock_NilRedisDegradesToNoOp(t *testing.T) {
	ctx := context.Background()

	acquired, err := AcquireRunLock(ctx, nil, time.Minute)
	if err != nil {
		t.Fatalf("AcquireRunLock with nil redis = %v, want nil error", err)
	}
	if !acquired {
		t.Error("AcquireRunLock with nil redis must succeed")
	}

	if err := ReleaseRunLock(ctx, nil); err != nil {
		t.Errorf("ReleaseRunLock with nil redis = %v, want nil", err)
	}
}

func TestRecomputeAll_LockHeld(t *testing.T) {
	svc := &leaderboardService{
		acquireLock: func(context.Context) (bool, error) { return false, nil },
	}

	err := svc.RecomputeAll(context.Background())
	if !errors.Is(err, apperror.ErrRunInProgress) {
		t.Errorf("RecomputeAll while locked = %v, want ErrRunInProgress", err)
	}
}

func TestRecomputeAll_LockErrorSurfaces(t *testing.T) {
	lockErr := errors.New("redis unreachable")
	svc := &leaderboardService{
		acquireLock: func(context.Context) (bool, error) { return false, lockErr },
	}

	err := svc.RecomputeAll(context.Background())
	if !errors.Is(err, lockErr) {
		t.Errorf("RecomputeAll with failing lock = %v, want the lock error", err)
	}
}
