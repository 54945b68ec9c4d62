package messaging

import (
	"context"

	messageRepo "guidely/database/repository/message"
	"guidely/models"
	"guidely/services/booking"
	"guidely/services/notification"
	"guidely/utils"

	"go.uber.org/zap"
)

const maxContentLength = 1000

// MessageService manages the per-booking message thread. Only the two
// booking participants may take part.
type MessageService interface {
	Send(ctx context.Context, bookingID, senderID, content string) (*models.Message, error)
	List(ctx context.Context, bookingID, requesterID string) ([]models.Message, error)
	MarkRead(ctx context.Context, bookingID, readerID string) (int64, error)
}

// DefaultMessageService implements MessageService.
type DefaultMessageService struct {
	Repo       messageRepo.MessageRepository
	BookingSvc booking.BookingService
	Notifier   notification.Publisher
	Logger     *zap.Logger
}

// Send appends a message to the booking thread and notifies the other
// participant.
func (s *DefaultMessageService) Send(ctx context.Context, bookingID, senderID, content string) (*models.Message, error) {
	if len(content) < 1 || len(content) > maxContentLength {
		return nil, utils.NewValidation("message content must be 1-%d characters", maxContentLength)
	}

	participants, err := s.BookingSvc.Participants(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !participants.Contains(senderID) {
		return nil, utils.NewForbidden("only booking participants may send messages")
	}

	m := &models.Message{
		BookingID: bookingID,
		SenderID:  senderID,
		Content:   content,
		IsRead:    false,
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.Notifier.Publish(participants.Other(senderID), models.EventTypeMessage, map[string]any{
		"bookingId": bookingID,
		"messageId": m.ID,
		"senderId":  senderID,
	})

	s.Logger.Debug("message sent",
		zap.String("bookingId", bookingID), zap.String("messageId", m.ID))
	return m, nil
}

// List returns the full thread in chronological order. Only participants
// may read it.
func (s *DefaultMessageService) List(ctx context.Context, bookingID, requesterID string) ([]models.Message, error) {
	participants, err := s.BookingSvc.Participants(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !participants.Contains(requesterID) {
		return nil, utils.NewForbidden("only booking participants may read the thread")
	}
	return s.Repo.ListByBooking(ctx, bookingID)
}

// MarkRead flips the other party's messages to read in one bulk update,
// typically when the reader opens the thread.
func (s *DefaultMessageService) MarkRead(ctx context.Context, bookingID, readerID string) (int64, error) {
	participants, err := s.BookingSvc.Participants(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	if !participants.Contains(readerID) {
		return 0, utils.NewForbidden("only booking participants may mark the thread read")
	}
	return s.Repo.MarkRead(ctx, bookingID, readerID)
}
