package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func TestIsMissingDocumentPath(t *testing.T) {
	pathErr := fmt.Errorf("failed to update item in table 'UserProfiles': %w", &smithy.GenericAPIError{
		Code:    "ValidationException",
		Message: "The document path provided in the update expression is invalid for update",
	})
	if !isMissingDocumentPath(pathErr) {
		t.Error("document-path rejection not recognized")
	}

	// a throttle or a plain network failure must never trigger the
	// fallback that rewrites the history map whole
	throttle := fmt.Errorf("failed to update item in table 'UserProfiles': %w", &smithy.GenericAPIError{
		Code: "ProvisionedThroughputExceededException",
	})
	if isMissingDocumentPath(throttle) {
		t.Error("throttle misclassified as a missing document path")
	}
	if isMissingDocumentPath(errors.New("connection reset by peer")) {
		t.Error("network error misclassified as a missing document path")
	}
}
