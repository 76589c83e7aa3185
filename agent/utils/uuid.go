package utils

import (
	"github.com/google/uuid"
)

// UUID generates new unique ID. It's used for message @id's and record IDs.
func UUID() string {
	return uuid.New().String()
}
