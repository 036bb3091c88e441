package services

import (
	"context"
	"errors"
	"fmt"

	"spookin_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PreferenceService is the single typed accessor for a user's display
// settings. The record is read whole and written whole.
type PreferenceService struct {
	Dynamo *DynamoService
}

// GetPreferences returns the saved preferences, or defaults for users
// who have never saved any.
func (ps *PreferenceService) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ps.Dynamo.GetItem(ctx, models.PreferencesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			prefs := models.DefaultPreferences(userID)
			return &prefs, nil
		}
		return nil, err
	}

	var prefs models.Preferences
	if err := attributevalue.UnmarshalMap(item, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return &prefs, nil
}

// SavePreferences overwrites the whole record for the user.
func (ps *PreferenceService) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	if prefs.UserID == "" {
		return errors.New("preferences require a userId")
	}
	if prefs.MusicVolume < 0 || prefs.MusicVolume > 100 {
		return errors.New("music volume must be between 0 and 100")
	}
	return ps.Dynamo.PutItem(ctx, models.PreferencesTable, prefs)
}
