package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/ajstars1/0unveiled-leaderboard/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	NotificationGateway

	GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(id uuid.UUID) error
	MarkAllAsRead(userID uuid.UUID) error
	UnreadCount(userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	mailer      Mailer
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, mailer Mailer, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		userRepo:    userRepo,
		mailer:      mailer,
		redisClient: redisClient,
	}
}

// Notify writes an in-app notification for userID and, unless suppressed,
// triggers the rank-change email. The recipient's per-category preference
// flags are honored before anything is written.
func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, kind, message, link string, skipEmail bool) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load notification recipient %s: %w", userID, err)
	}

	if !user.NotifyLeaderboard {
		return nil
	}

	notification := &model.Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
		Link:    link,
	}

	sendEmail := !skipEmail && user.EmailLeaderboard && s.mailer != nil
	notification.EmailSent = sendEmail

	if err := s.repo.Create(notification); err != nil {
		return err
	}

	s.publish(ctx, notification)

	if sendEmail {
		// Email failures are logged, never surfaced: the in-app
		// notification already exists.
		if err := s.mailer.SendRankChange(ctx, user.Email, user.Username, kind, message); err != nil {
			log.Printf("rank change email to %s failed: %v", user.Username, err)
		}
	}

	return nil
}

// publish fans the notification out over Redis so connected websocket
// clients see it immediately.
func (s *notificationService) publish(ctx context.Context, notification *model.Notification) {
	if s.redisClient == nil {
		return
	}

	channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())
	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}
	s.redisClient.Publish(ctx, channel, payload)
}

func (s *notificationService) GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.GetByUserID(userID, limit, offset)
}

func (s *notificationService) MarkAsRead(id uuid.UUID) error {
	return s.repo.MarkAsRead(id)
}

func (s *notificationService) MarkAllAsRead(userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(userID)
}

func (s *notificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(userID)
}
