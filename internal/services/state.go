package services

// runState tracks the phase of a single aggregation run.
type runState int

const (
	stateInit runState = iota
	stateBackupDone
	stateSearching
	stateIngesting
	stateFinalizing
	stateDone
	stateFailed
)

func (s runState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateBackupDone:
		return "backup_done"
	case stateSearching:
		return "searching"
	case stateIngesting:
		return "ingesting"
	case stateFinalizing:
		return "finalizing"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// validTransitions lists every allowed state change. A run fails from init
// when the pre-run backup cannot be taken and from finalizing when the store
// stopped accepting writes; task and record level failures never end a run.
// done and failed are terminal.
var validTransitions = map[runState][]runState{
	stateInit:       {stateBackupDone, stateFailed},
	stateBackupDone: {stateSearching, stateFinalizing},
	stateSearching:  {stateIngesting, stateSearching, stateFinalizing},
	stateIngesting:  {stateSearching, stateFinalizing},
	stateFinalizing: {stateDone, stateFailed},
}

func (s runState) canTransitionTo(next runState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
