package model

// Problem is the global record for one problem inside an assignment.
// ProblemID is a flat positive integer for standard and timed sets, or a
// tree-position-encoded integer (see internal/treepath) for nested-review
// sets.
//
// swagger:model Problem
type Problem struct {
	BaseModel
	AssignmentID uint  `gorm:"uniqueIndex:idx_set_problem;not null" json:"assignmentId"`
	ProblemID    int64 `gorm:"uniqueIndex:idx_set_problem;not null" json:"problemId"`

	SourceFile        string `gorm:"size:255" json:"sourceFile"`
	Value             int    `gorm:"default:1" json:"value"`
	MaxAttempts       int    `gorm:"default:-1" json:"maxAttempts"`
	ShowMeAnother     int    `gorm:"default:-1" json:"showMeAnother"`
	PrPeriod          int    `gorm:"default:-1" json:"prPeriod"`
	AttToOpenChildren int    `gorm:"default:0" json:"attToOpenChildren"`
	CountsParentGrade bool   `gorm:"default:false" json:"countsParentGrade"`
}

func (Problem) TableName() string {
	return "problems"
}
