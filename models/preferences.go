package models

// Preferences holds a user's display settings as one typed record,
// written whole on every change.
type Preferences struct {
	UserID         string `dynamodbav:"userId" json:"userId"`
	BackgroundFX   bool   `dynamodbav:"backgroundFx" json:"backgroundFx"`
	MusicAutoplay  bool   `dynamodbav:"musicAutoplay" json:"musicAutoplay"`
	MusicVolume    int    `dynamodbav:"musicVolume" json:"musicVolume"`
	ChatAnimations bool   `dynamodbav:"chatAnimations" json:"chatAnimations"`
	SeenTutorial   bool   `dynamodbav:"seenTutorial" json:"seenTutorial"`
}

// DefaultPreferences are applied to users who have never saved settings.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:         userID,
		BackgroundFX:   true,
		MusicAutoplay:  false,
		MusicVolume:    50,
		ChatAnimations: true,
		SeenTutorial:   false,
	}
}

// PreferencesTable is the DynamoDB table name for user preferences
const PreferencesTable = "Preferences"
