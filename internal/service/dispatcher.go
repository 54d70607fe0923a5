package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/google/uuid"
)

// NotificationGateway is the single seam to the notification collaborator:
// it checks the recipient's preferences, writes the notification row and
// optionally triggers email. Tests substitute a fake.
type NotificationGateway interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, message, link string, skipEmail bool) error
}

const (
	// Only movements into, out of, or within the top 100 are worth a send.
	notifyRankCeiling = 100

	// Email is additionally gated on the user's GENERAL score. Users at or
	// below the threshold still get the in-app notification.
	emailScoreThreshold = 1000

	leaderboardLink = "/leaderboard"
)

// Dispatcher delivers rank-change notifications in small concurrent batches
// with a pause in between, respecting the email provider's rate limit.
type Dispatcher struct {
	gateway   NotificationGateway
	batchSize int
	pause     time.Duration
	sleep     func(time.Duration) // injectable for tests
}

func NewDispatcher(gateway NotificationGateway, batchSize int, pause time.Duration) *Dispatcher {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Dispatcher{
		gateway:   gateway,
		batchSize: batchSize,
		pause:     pause,
		sleep:     time.Sleep,
	}
}

// Dispatch sends a notification for every rank change that composes to a
// message. A failed send is logged and skipped; it never aborts the batch.
// generalScores maps each user to their GENERAL composite score for the
// email threshold.
func (d *Dispatcher) Dispatch(ctx context.Context, changes []RankChange, generalScores map[uuid.UUID]int) {
	for start := 0; start < len(changes); start += d.batchSize {
		if start > 0 {
			d.sleep(d.pause)
		}

		end := start + d.batchSize
		if end > len(changes) {
			end = len(changes)
		}

		var wg sync.WaitGroup
		for _, change := range changes[start:end] {
			kind, message := composeRankChange(change)
			if message == "" {
				continue
			}

			skipEmail := generalScores[change.UserID] <= emailScoreThreshold

			wg.Add(1)
			go func(change RankChange) {
				defer wg.Done()
				if err := d.gateway.Notify(ctx, change.UserID, kind, message, leaderboardLink, skipEmail); err != nil {
					log.Printf("rank notification for user %s failed: %v", change.UserID, err)
				}
			}(change)
		}
		wg.Wait()
	}
}

// composeRankChange builds the message for one rank movement, or returns an
// empty message when the change happened entirely outside the top 100.
func composeRankChange(change RankChange) (kind, message string) {
	inTopNow := change.NewRank <= notifyRankCeiling
	wasTopBefore := change.PrevRank >= 1 && change.PrevRank <= notifyRankCeiling
	if !inTopNow && !wasTopBefore {
		return "", ""
	}

	switch {
	case change.PrevRank == 0:
		return model.NotificationWelcome,
			fmt.Sprintf("Welcome to the leaderboard! You're ranked #%d.", change.NewRank)
	case change.PrevRank > change.NewRank:
		return model.NotificationRankUp,
			fmt.Sprintf("You moved up %d positions to #%d!", change.PrevRank-change.NewRank, change.NewRank)
	default:
		return model.NotificationRankDown,
			fmt.Sprintf("You dropped to #%d (down %d positions).", change.NewRank, change.NewRank-change.PrevRank)
	}
}
