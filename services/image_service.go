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
	"github.com/google/uuid"
)

// ImageService persists uploaded-image records and their denormalized
// copy in the owning profile's history map.
type ImageService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
}

// CreateImageRecord stores the record, then writes the history entry.
// The two writes are independent; a failure of the second leaves the
// record without its history copy, and is surfaced to the caller.
func (is *ImageService) CreateImageRecord(ctx context.Context, userID, url, title, description string) (*models.ImageRecord, error) {
	if url == "" {
		return nil, errors.New("image url is required")
	}

	record := models.ImageRecord{
		ImageID:     uuid.NewString(),
		UserID:      userID,
		URL:         url,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := is.Dynamo.PutItem(ctx, models.ImagesTable, record); err != nil {
		return nil, fmt.Errorf("failed to store image record: %w", err)
	}

	if err := is.Profiles.RecordImageInHistory(ctx, userID, record.ImageID, record.URL); err != nil {
		log.Printf("❌ Image %s stored but history entry failed: %v", record.ImageID, err)
		return nil, fmt.Errorf("failed to record image in profile history: %w", err)
	}

	return &record, nil
}

// GetImagesByUser lists a user's images, newest first.
func (is *ImageService) GetImagesByUser(ctx context.Context, userID string, limit int) ([]models.ImageRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	keyCondition := "#userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}
	expressionNames := map[string]string{
		"#userId": "userId",
	}

	items, err := is.Dynamo.QueryItemsWithIndex(ctx, models.ImagesTable, models.ImagesByUserIndex, keyCondition, expressionValues, expressionNames, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch images: %w", err)
	}

	var records []models.ImageRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to parse images: %w", err)
	}
	return records, nil
}

// GetImage fetches one image record.
func (is *ImageService) GetImage(ctx context.Context, imageID string) (*models.ImageRecord, error) {
	key := map[string]types.AttributeValue{
		"imageId": &types.AttributeValueMemberS{Value: imageID},
	}
	item, err := is.Dynamo.GetItem(ctx, models.ImagesTable, key)
	if err != nil {
		return nil, err
	}

	var record models.ImageRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("failed to parse image record: %w", err)
	}
	return &record, nil
}
