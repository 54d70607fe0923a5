package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/google/uuid"
)

type notifyCall struct {
	userID    uuid.UUID
	kind      string
	message   string
	skipEmail bool
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (g *fakeGateway) Notify(ctx context.Context, userID uuid.UUID, kind, message, link string, skipEmail bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, notifyCall{userID: userID, kind: kind, message: message, skipEmail: skipEmail})
	return nil
}

func (g *fakeGateway) callFor(userID uuid.UUID) (notifyCall, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.calls {
		if c.userID == userID {
			return c, true
		}
	}
	return notifyCall{}, false
}

func newTestDispatcher(gateway NotificationGateway, batchSize int) (*Dispatcher, *int) {
	d := NewDispatcher(gateway, batchSize, time.Second)
	pauses := 0
	d.sleep = func(time.Duration) { pauses++ }
	return d, &pauses
}

func generalChange(prev, newRank int) RankChange {
	return RankChange{
		UserID:    uuid.New(),
		Partition: model.GeneralPartition(),
		PrevRank:  prev,
		NewRank:   newRank,
	}
}

func TestDispatch_WelcomeOnFirstAppearance(t *testing.T) {
	gateway := &fakeGateway{}
	d, _ := newTestDispatcher(gateway, 2)

	change := generalChange(0, 7)
	d.Dispatch(context.Background(), []RankChange{change}, map[uuid.UUID]int{change.UserID: 5000})

	call, ok := gateway.callFor(change.UserID)
	if !ok {
		t.Fatal("first appearance in the top 100 should notify")
	}
	if call.kind != model.NotificationWelcome {
		t.Errorf("kind = %q, want %q", call.kind, model.NotificationWelcome)
	}
	if !strings.Contains(call.message, "#7") {
		t.Errorf("welcome message should carry the new rank, got %q", call.message)
	}
}

func TestDispatch_MovedUp(t *testing.T) {
	gateway := &fakeGateway{}
	d, _ := newTestDispatcher(gateway, 2)

	change := generalChange(20, 5)
	d.Dispatch(context.Background(), []RankChange{change}, map[uuid.UUID]int{change.UserID: 5000})

	call, ok := gateway.callFor(change.UserID)
	if !ok {
		t.Fatal("an improvement inside the top 100 should notify")
	}
	if call.kind != model.NotificationRankUp {
		t.Errorf("kind = %q, want %q", call.kind, model.NotificationRankUp)
	}
	if !strings.Contains(call.message, "15 positions") {
		t.Errorf("message should report the 15-position climb, got %q", call.message)
	}
}

func TestDispatch_DroppedOutOfTop100(t *testing.T) {
	gateway := &fakeGateway{}
	d, _ := newTestDispatcher(gateway, 2)

	change := generalChange(50, 150)
	d.Dispatch(context.Background(), []RankChange{change}, map[uuid.UUID]int{change.UserID: 5000})

	call, ok := gateway.callFor(change.UserID)
	if !ok {
		t.Fatal("dropping out of the top 100 should notify")
	}
	if call.kind != model.NotificationRankDown {
		t.Errorf("kind = %q, want %q", call.kind, model.NotificationRankDown)
	}
	if !strings.Contains(call.message, "#150") || !strings.Contains(call.message, "100 positions") {
		t.Errorf("message should carry the new rank and delta, got %q", call.message)
	}
}

func TestDispatch_OffLeaderboardChurnSuppressed(t *testing.T) {
	gateway := &fakeGateway{}
	d, _ := newTestDispatcher(gateway, 2)

	cases := []RankChange{
		generalChange(150, 200), // movement entirely outside the top 100
		generalChange(0, 300),   // first appearance outside the top 100
	}
	scores := map[uuid.UUID]int{}
	for _, c := range cases {
		scores[c.UserID] = 5000
	}

	d.Dispatch(context.Background(), cases, scores)

	if len(gateway.calls) != 0 {
		t.Errorf("off-leaderboard churn should produce no sends, got %d", len(gateway.calls))
	}
}

func TestDispatch_EmailGatedOnGeneralScore(t *testing.T) {
	gateway := &fakeGateway{}
	d, _ := newTestDispatcher(gateway, 2)

	lowScore := generalChange(0, 10)
	highScore := generalChange(0, 11)
	boundary := generalChange(0, 12)

	d.Dispatch(context.Background(),
		[]RankChange{lowScore, highScore, boundary},
		map[uuid.UUID]int{
			lowScore.UserID:  900,
			highScore.UserID: 4000,
			boundary.UserID:  1000, // exactly at the threshold: still suppressed
		})

	if call, ok := gateway.callFor(lowScore.UserID); !ok || !call.skipEmail {
		t.Errorf("score 900 must suppress email but keep the notification, got %+v ok=%v", call, ok)
	}
	if call, ok := gateway.callFor(highScore.UserID); !ok || call.skipEmail {
		t.Errorf("score 4000 must allow email, got %+v ok=%v", call, ok)
	}
	if call, ok := gateway.callFor(boundary.UserID); !ok || !call.skipEmail {
		t.Errorf("score exactly 1000 must suppress email, got %+v ok=%v", call, ok)
	}
}

func TestDispatch_BatchPacing(t *testing.T) {
	gateway := &fakeGateway{}
	d, pauses := newTestDispatcher(gateway, 2)

	changes := make([]RankChange, 5)
	scores := map[uuid.UUID]int{}
	for i := range changes {
		changes[i] = generalChange(0, i+1)
		scores[changes[i].UserID] = 5000
	}

	d.Dispatch(context.Background(), changes, scores)

	if len(gateway.calls) != 5 {
		t.Errorf("got %d sends, want 5", len(gateway.calls))
	}
	// 5 changes in batches of 2 -> 3 batches -> 2 pauses between them.
	if *pauses != 2 {
		t.Errorf("got %d inter-batch pauses, want 2", *pauses)
	}
}

func TestDispatch_NoChangesNoPauses(t *testing.T) {
	gateway := &fakeGateway{}
	d, pauses := newTestDispatcher(gateway, 2)

	d.Dispatch(context.Background(), nil, nil)

	if len(gateway.calls) != 0 || *pauses != 0 {
		t.Errorf("empty dispatch should do nothing, got %d sends, %d pauses", len(gateway.calls), *pauses)
	}
}
