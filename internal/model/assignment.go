package model

type AssignmentType string

const (
	AssignmentStandard          AssignmentType = "standard"
	AssignmentTimedTest         AssignmentType = "timed_test"
	AssignmentProctoredTimed    AssignmentType = "proctored_timed_test"
	AssignmentNestedReview      AssignmentType = "nested_review"
)

// Assignment is the global (template) record for one problem set. Every
// field here is the authoritative value unless a UserAssignment row
// overrides it for a particular user.
//
// swagger:model Assignment
type Assignment struct {
	BaseModel
	Name           string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	AssignmentType AssignmentType `gorm:"size:30;default:'standard'" json:"assignmentType"`
	Description    string         `gorm:"type:text" json:"description"`
	Visible        bool           `gorm:"default:true" json:"visible"`

	// Schedule, unix seconds.
	OpenDate             int64 `gorm:"default:0" json:"openDate"`
	ReducedScoringDate   int64 `gorm:"default:0" json:"reducedScoringDate"`
	DueDate              int64 `gorm:"default:0" json:"dueDate"`
	AnswerDate           int64 `gorm:"default:0" json:"answerDate"`
	EnableReducedScoring bool  `gorm:"default:false" json:"enableReducedScoring"`

	SetHeader      string `gorm:"size:255" json:"setHeader"`
	HardcopyHeader string `gorm:"size:255" json:"hardcopyHeader"`

	// Timed-test group. Durations stored in seconds, edited in minutes.
	TimeLimit           int64  `gorm:"default:0" json:"timeLimit"`
	TimeInterval        int64  `gorm:"default:0" json:"timeInterval"`
	VersionsPerInterval int    `gorm:"default:0" json:"versionsPerInterval"`
	AttemptsPerVersion  int    `gorm:"default:0" json:"attemptsPerVersion"`
	ProblemRandOrder    bool   `gorm:"default:false" json:"problemRandOrder"`
	ProblemsPerPage     int    `gorm:"default:1" json:"problemsPerPage"`
	HideScore           string `gorm:"size:30;default:'no'" json:"hideScore"`
	HideScoreByProblem  string `gorm:"size:30;default:'no'" json:"hideScoreByProblem"`
	HideWork            string `gorm:"size:30;default:'no'" json:"hideWork"`

	// Proctored-test group.
	RestrictIP      string `gorm:"size:30;default:'no'" json:"restrictIP"`
	RelaxRestrictIP string `gorm:"size:30;default:'no'" json:"relaxRestrictIP"`
}

func (Assignment) TableName() string {
	return "assignments"
}
