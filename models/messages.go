package models

type Message struct {
	ThreadID     string `dynamodbav:"threadId" json:"threadId"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
	MessageID    string `dynamodbav:"messageId" json:"messageId"`
	SenderID     string `dynamodbav:"senderId" json:"senderId"`
	SenderHandle string `dynamodbav:"senderHandle" json:"senderHandle"`
	SenderAvatar string `dynamodbav:"senderAvatar,omitempty" json:"senderAvatar,omitempty"`
	Body         string `dynamodbav:"body" json:"body"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"

// GlobalThreadID is the well-known identifier of the single global thread
const GlobalThreadID = "global"
