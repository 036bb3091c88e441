package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID        string            `dynamodbav:"userId" json:"userId"`
	Handle        string            `dynamodbav:"handle" json:"handle"`
	Bio           string            `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL     string            `dynamodbav:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Visible       bool              `dynamodbav:"visible" json:"visible"`
	Notifications bool              `dynamodbav:"notifications" json:"notifications"`
	Candy         int               `dynamodbav:"candy" json:"candy"`
	Potions       int               `dynamodbav:"potions" json:"potions"`
	Spins         int               `dynamodbav:"spins" json:"spins"`
	ImageHistory  map[string]string `dynamodbav:"imageHistory,omitempty" json:"imageHistory,omitempty"`
	CreatedAt     string            `dynamodbav:"createdAt" json:"createdAt"`
}

// Account holds the credential record for a registered user, keyed by email.
type Account struct {
	EmailID      string `dynamodbav:"emailId" json:"emailId"`
	UserID       string `dynamodbav:"userId" json:"userId"`
	PasswordHash string `dynamodbav:"passwordHash" json:"-"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// AccountsTable is the DynamoDB table name for credential records
const AccountsTable = "Accounts"

// HandleIndex is the GSI on UserProfiles keyed by handle
const HandleIndex = "handle-index"
