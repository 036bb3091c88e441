package models

// Session is an opaque-token login session. Guest sessions carry no
// account and are blocked from registered-only actions.
type Session struct {
	Token     string `dynamodbav:"token" json:"token"`
	UserID    string `dynamodbav:"userId" json:"userId"`
	Guest     bool   `dynamodbav:"guest" json:"guest"`
	Active    bool   `dynamodbav:"active" json:"active"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt string `dynamodbav:"expiresAt" json:"expiresAt"`
}

// SessionsTable is the DynamoDB table name for sessions
const SessionsTable = "Sessions"
