package events

import (
	"github.com/jobvault/aggregator/internal/domain/models"
)

var TaskCompletedTopic = "TaskCompletedEvent"

type TaskCompleted struct {
	Task    models.SearchTask
	Fetched int
	Failed  bool
}
