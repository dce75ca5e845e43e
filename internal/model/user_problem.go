package model

// UserProblem is the per-user override record for one problem, plus the
// user-only bookkeeping fields that have no global counterpart (status,
// attempt counters, seed, last answer). Nil override columns inherit from
// the global Problem row.
//
// swagger:model UserProblem
type UserProblem struct {
	BaseModel
	AssignmentID uint  `gorm:"uniqueIndex:idx_user_set_problem;not null" json:"assignmentId"`
	UserID       uint  `gorm:"uniqueIndex:idx_user_set_problem;not null" json:"userId"`
	ProblemID    int64 `gorm:"uniqueIndex:idx_user_set_problem;not null" json:"problemId"`
	Version      int   `gorm:"uniqueIndex:idx_user_set_problem;default:0" json:"version"`

	SourceFile        *string `gorm:"size:255" json:"sourceFile,omitempty"`
	Value             *int    `json:"value,omitempty"`
	MaxAttempts       *int    `json:"maxAttempts,omitempty"`
	ShowMeAnother     *int    `json:"showMeAnother,omitempty"`
	PrPeriod          *int    `json:"prPeriod,omitempty"`
	AttToOpenChildren *int    `json:"attToOpenChildren,omitempty"`
	CountsParentGrade *bool   `json:"countsParentGrade,omitempty"`

	// User-only fields.
	ProblemSeed  *int     `json:"problemSeed,omitempty"`
	Status       *float64 `json:"status,omitempty"`
	Attempted    *int     `json:"attempted,omitempty"`
	NumCorrect   *int     `json:"numCorrect,omitempty"`
	NumIncorrect *int     `json:"numIncorrect,omitempty"`
	LastAnswer   *string  `gorm:"type:text" json:"lastAnswer,omitempty"`
}

func (UserProblem) TableName() string {
	return "user_problems"
}
