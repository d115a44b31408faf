package service

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMessageEmpty      = errors.New("message body cannot be empty")
	ErrNotInConversation = errors.New("users are not in a trainer/client relationship")
)

// Default page size for conversation history.
const defaultConversationLimit = 50

// ChatService handles direct messages between a trainer and their clients.
// Either side may only message the other half of an established coaching
// relationship.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, recipientID primitive.ObjectID, body string) (*domain.Message, error)
	GetConversation(ctx context.Context, userID, otherID primitive.ObjectID, limit int64) ([]domain.Message, error)
	MarkConversationRead(ctx context.Context, userID, otherID primitive.ObjectID) (int64, error)
}

type chatService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

// NewChatService creates a new instance of chatService.
func NewChatService(userRepo repository.UserRepository, messageRepo repository.MessageRepository) ChatService {
	return &chatService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
	}
}

// SendMessage stores a message after checking the coaching relationship.
func (s *chatService) SendMessage(ctx context.Context, senderID, recipientID primitive.ObjectID, body string) (*domain.Message, error) {
	if senderID == primitive.NilObjectID || recipientID == primitive.NilObjectID {
		return nil, errors.New("sender ID and recipient ID are required")
	}
	if body == "" {
		return nil, ErrMessageEmpty
	}

	if err := s.requireRelationship(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	messageID, err := s.messageRepo.Create(ctx, message)
	if err != nil {
		return nil, err
	}
	message.ID = messageID
	return message, nil
}

// GetConversation returns the recent message history, oldest first.
func (s *chatService) GetConversation(ctx context.Context, userID, otherID primitive.ObjectID, limit int64) ([]domain.Message, error) {
	if userID == primitive.NilObjectID || otherID == primitive.NilObjectID {
		return nil, errors.New("both user IDs are required")
	}
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	if err := s.requireRelationship(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetConversation(ctx, userID, otherID, limit)
}

// MarkConversationRead stamps the other party's unread messages as read and
// returns how many were marked.
func (s *chatService) MarkConversationRead(ctx context.Context, userID, otherID primitive.ObjectID) (int64, error) {
	if userID == primitive.NilObjectID || otherID == primitive.NilObjectID {
		return 0, errors.New("both user IDs are required")
	}
	return s.messageRepo.MarkConversationRead(ctx, userID, otherID)
}

// requireRelationship verifies that one of the two users coaches the other.
func (s *chatService) requireRelationship(ctx context.Context, userID, otherID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotInConversation
		}
		return err
	}

	switch {
	case user.IsClient():
		if user.TrainerID == nil || *user.TrainerID != otherID {
			return ErrNotInConversation
		}
	case user.IsTrainer():
		for _, clientID := range user.ClientIDs {
			if clientID == otherID {
				return nil
			}
		}
		return ErrNotInConversation
	default:
		return ErrNotInConversation
	}
	return nil
}
