package usecase

import "github.com/fadilmartias/talent-assessment/internal/model"

// transitions lists the statuses reachable from each status. Anything not
// listed, including every move out of a terminal status, is refused. Reset of
// a failed test bypasses this table.
var transitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.StatusPending: {
		model.StatusReviewed, model.StatusShortlisted, model.StatusTestAssigned,
		model.StatusRejected, model.StatusAccepted, model.StatusWithdrawn,
	},
	model.StatusReviewed: {
		model.StatusShortlisted, model.StatusTestAssigned,
		model.StatusRejected, model.StatusAccepted, model.StatusWithdrawn,
	},
	model.StatusShortlisted: {
		model.StatusTestAssigned, model.StatusRejected, model.StatusAccepted, model.StatusWithdrawn,
	},
	model.StatusTestAssigned: {
		model.StatusTestAssigned, model.StatusSelected, model.StatusRejected,
		model.StatusAccepted, model.StatusWithdrawn,
	},
	model.StatusSelected: {model.StatusAccepted},
}

func canTransition(from, to model.ApplicationStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func isTerminal(s model.ApplicationStatus) bool {
	switch s {
	case model.StatusRejected, model.StatusAccepted, model.StatusWithdrawn, model.StatusSelected:
		return true
	}
	return false
}
