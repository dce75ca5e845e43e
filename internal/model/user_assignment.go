package model

// UserAssignment is the per-user override record for an assignment. A nil
// column means "inherit the global value". Version 0 is the plain per-user
// record; versions >= 1 are attempt versions of timed tests and exist only
// when a version-0 row exists for the same (assignment, user) pair.
//
// swagger:model UserAssignment
type UserAssignment struct {
	BaseModel
	AssignmentID uint `gorm:"uniqueIndex:idx_user_set;not null" json:"assignmentId"`
	UserID       uint `gorm:"uniqueIndex:idx_user_set;not null" json:"userId"`
	Version      int  `gorm:"uniqueIndex:idx_user_set;default:0" json:"version"`

	OpenDate             *int64 `json:"openDate,omitempty"`
	ReducedScoringDate   *int64 `json:"reducedScoringDate,omitempty"`
	DueDate              *int64 `json:"dueDate,omitempty"`
	AnswerDate           *int64 `json:"answerDate,omitempty"`
	EnableReducedScoring *bool  `json:"enableReducedScoring,omitempty"`

	TimeLimit           *int64  `json:"timeLimit,omitempty"`
	TimeInterval        *int64  `json:"timeInterval,omitempty"`
	VersionsPerInterval *int    `json:"versionsPerInterval,omitempty"`
	AttemptsPerVersion  *int    `json:"attemptsPerVersion,omitempty"`
	ProblemRandOrder    *bool   `json:"problemRandOrder,omitempty"`
	ProblemsPerPage     *int    `json:"problemsPerPage,omitempty"`
	HideScore           *string `gorm:"size:30" json:"hideScore,omitempty"`
	HideScoreByProblem  *string `gorm:"size:30" json:"hideScoreByProblem,omitempty"`
	HideWork            *string `gorm:"size:30" json:"hideWork,omitempty"`
}

func (UserAssignment) TableName() string {
	return "user_assignments"
}
