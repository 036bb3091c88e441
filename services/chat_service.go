package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"spookin_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MessageBroadcaster pushes a stored message to every live subscriber of
// a thread. Decouples the chat service from the socket transport.
type MessageBroadcaster interface {
	BroadcastMessage(threadID string, message models.Message)
}

type messageStore interface {
	PutItem(ctx context.Context, tableName string, item interface{}) error
	QueryItemsWithOptions(ctx context.Context, tableName, keyConditionExpression string,
		expressionAttributeValues map[string]types.AttributeValue,
		expressionAttributeNames map[string]string, limit int32, latestFirst bool,
	) ([]map[string]types.AttributeValue, error)
}

type senderProfileReader interface {
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// ChatService struct
type ChatService struct {
	Dynamo    messageStore
	Profiles  senderProfileReader
	Filter    *WordFilter
	Broadcast MessageBroadcaster
}

// DefaultMessageLimit is how many recent messages a thread view loads.
const DefaultMessageLimit = 50

// GetMessages fetches the latest messages for a thread sorted by
// createdAt (latest first), then reverses the order before returning,
// so the latest message appears at the bottom in the UI.
func (s *ChatService) GetMessages(ctx context.Context, threadID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	keyCondition := "#threadId = :threadId"
	expressionValues := map[string]types.AttributeValue{
		":threadId": &types.AttributeValueMemberS{Value: threadID},
	}
	expressionNames := map[string]string{
		"#threadId": "threadId",
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, int32(limit), true)
	if err != nil {
		log.Printf("❌ Error querying messages: %v", err)
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	// Reverse so the latest appears at the bottom in the UI
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// SendMessage filters the body, snapshots the sender's handle and avatar,
// stores the message and fans it out to the thread's room. The snapshot
// is taken at send time and never re-synced with later profile edits.
func (s *ChatService) SendMessage(ctx context.Context, threadID, senderID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("message body cannot be empty")
	}

	profile, err := s.Profiles.GetUserProfile(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender profile: %w", err)
	}

	message := models.Message{
		ThreadID:     threadID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339Nano),
		MessageID:    uuid.NewString(),
		SenderID:     senderID,
		SenderHandle: profile.Handle,
		SenderAvatar: profile.AvatarURL,
		Body:         s.Filter.Apply(body),
	}

	log.Printf("📩 Storing message %s in thread %s", message.MessageID, threadID)
	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		log.Printf("❌ Failed to store message: %v", err)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if s.Broadcast != nil {
		s.Broadcast.BroadcastMessage(threadID, message)
	}

	return &message, nil
}
