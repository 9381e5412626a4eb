package events

import (
	"github.com/jobvault/aggregator/internal/domain/models"
)

var RunCompletedTopic = "RunCompletedEvent"

type RunCompleted struct {
	Stats models.RunStats
}
