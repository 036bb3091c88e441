package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"spookin_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

type UserProfileService struct {
	Dynamo *DynamoService
}

// ErrHandleTaken is returned when a registration or rename collides with
// an existing display handle.
var ErrHandleTaken = errors.New("handle already taken")

// AddUserProfile adds a new user profile to DynamoDB
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.CreatedAt == "" {
		profile.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if profile.UserID == "" {
		return nil, errors.New("malformed profile document: missing userId")
	}

	return &profile, nil
}

// GetUserProfileByHandle looks a profile up through the handle GSI.
// Returns nil (no error) when the handle is unused.
func (ups *UserProfileService) GetUserProfileByHandle(ctx context.Context, handle string) (*models.UserProfile, error) {
	keyCondition := "#handle = :handle"
	expressionValues := map[string]types.AttributeValue{
		":handle": &types.AttributeValueMemberS{Value: handle},
	}
	expressionNames := map[string]string{
		"#handle": "handle",
	}

	items, err := ups.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.HandleIndex, keyCondition, expressionValues, expressionNames, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by handle: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// EnsureHandleAvailable runs the pre-write existence query for handle
// uniqueness. A race between two concurrent registrations is still
// possible; see DESIGN.md.
func (ups *UserProfileService) EnsureHandleAvailable(ctx context.Context, handle string) error {
	existing, err := ups.GetUserProfileByHandle(ctx, handle)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrHandleTaken
	}
	return nil
}

// UpdateUserProfile updates bio, avatar and flag fields of a profile.
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, updates map[string]interface{}) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for k, v := range updates {
		placeholder := ":" + k
		attributeName := "#" + k
		updateExpression += " " + attributeName + " = " + placeholder + ","

		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal update for field '%s': %w", k, err)
		}
		expressionAttributeValues[placeholder] = av
		expressionAttributeNames[attributeName] = k
	}

	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}

	return &updatedProfile, nil
}

// AdjustCandy atomically adds delta to the candy balance and returns the
// updated profile.
func (ups *UserProfileService) AdjustCandy(ctx context.Context, userID string, delta int) (*models.UserProfile, error) {
	return ups.addToProfileCounter(ctx, userID, "candy", delta)
}

// IncrementSpinCount bumps the lifetime spin counter by one.
func (ups *UserProfileService) IncrementSpinCount(ctx context.Context, userID string) error {
	_, err := ups.addToProfileCounter(ctx, userID, "spins", 1)
	return err
}

func (ups *UserProfileService) addToProfileCounter(ctx context.Context, userID, field string, delta int) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	attrs, err := ups.Dynamo.AddToCounter(ctx, models.UserProfilesTable, key, field, delta)
	if err != nil {
		log.Printf("❌ Failed to adjust %s for user %s: %v", field, userID, err)
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(attrs, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &profile, nil
}

// RecordImageInHistory denormalizes an image record into the owning
// profile's history map. The copy is never re-synced with later edits.
func (ups *UserProfileService) RecordImageInHistory(ctx context.Context, userID, imageID, imageURL string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET imageHistory.#imageId = :url"
	expressionNames := map[string]string{"#imageId": imageID}
	expressionValues := map[string]types.AttributeValue{
		":url": &types.AttributeValueMemberS{Value: imageURL},
	}

	_, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames)
	if err == nil {
		return nil
	}
	if !isMissingDocumentPath(err) {
		return err
	}

	// imageHistory does not exist yet on this profile; create it whole
	updateExpression = "SET imageHistory = :history"
	historyValue, merr := attributevalue.Marshal(map[string]string{imageID: imageURL})
	if merr != nil {
		return merr
	}
	_, err = ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key,
		map[string]types.AttributeValue{":history": historyValue}, nil)
	return err
}

// isMissingDocumentPath reports whether an update was rejected because
// the document path does not exist on the item. Only that case may fall
// back to writing the map whole; a transient or network error must not,
// or the fallback would wipe the existing history.
func isMissingDocumentPath(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException"
}

// DeleteUserProfile removes a user profile from DynamoDB
func (ups *UserProfileService) DeleteUserProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}
