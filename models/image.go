package models

// ImageRecord describes an uploaded image owned by a user. The same
// identifier is also written into the owner profile's imageHistory map.
type ImageRecord struct {
	ImageID     string `dynamodbav:"imageId" json:"imageId"`
	UserID      string `dynamodbav:"userId" json:"userId"`
	URL         string `dynamodbav:"url" json:"url"`
	Title       string `dynamodbav:"title,omitempty" json:"title,omitempty"`
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// ImagesTable is the DynamoDB table name for image records
const ImagesTable = "Images"

// ImagesByUserIndex is the GSI on Images keyed by userId
const ImagesByUserIndex = "userId-index"
