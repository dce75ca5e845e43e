package service

import (
	"time"

	"courseset_backend/internal/model"
)

// Date-ordering messages, emitted in priority order. Any violation rejects
// the whole edit batch before a single record is written.
const (
	msgAnswerBeforeDue  = "answer date cannot precede the due date"
	msgAnswerBeforeOpen = "answer date cannot precede the open date"
	msgDueBeforeOpen    = "due date cannot precede the open date"
	msgReducedOutside   = "reduced scoring date must fall between the open and due dates"
	msgDateTooFarFuture = "dates may not be set more than 10 years in the future"
)

const maxFutureYears = 10

// CheckDates validates the effective schedule of an assignment record. For
// override rows the effective value of an unset column is the global one,
// so a per-user due date is still checked against the inherited open and
// answer dates.
func CheckDates(global *model.Assignment, override *model.UserAssignment, now time.Time) []string {
	open := global.OpenDate
	reduced := global.ReducedScoringDate
	due := global.DueDate
	answer := global.AnswerDate
	enableReduced := global.EnableReducedScoring

	if override != nil {
		if override.OpenDate != nil {
			open = *override.OpenDate
		}
		if override.ReducedScoringDate != nil {
			reduced = *override.ReducedScoringDate
		}
		if override.DueDate != nil {
			due = *override.DueDate
		}
		if override.AnswerDate != nil {
			answer = *override.AnswerDate
		}
		if override.EnableReducedScoring != nil {
			enableReduced = *override.EnableReducedScoring
		}
	}

	var violations []string
	if answer < due {
		violations = append(violations, msgAnswerBeforeDue)
	} else if answer < open {
		violations = append(violations, msgAnswerBeforeOpen)
	}
	if due < open {
		violations = append(violations, msgDueBeforeOpen)
	}
	if enableReduced && reduced != 0 && (reduced < open || reduced > due) {
		violations = append(violations, msgReducedOutside)
	}
	horizon := now.AddDate(maxFutureYears, 0, 0).Unix()
	for _, d := range []int64{open, reduced, due, answer} {
		if d > horizon {
			violations = append(violations, msgDateTooFarFuture)
			break
		}
	}
	return violations
}
