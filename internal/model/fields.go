package model

import (
	"errors"
	"strconv"
)

// ErrNoSuchField reports a field name that the record kind does not carry.
// Reaching it means the schema and the accessors disagree, which is a bug,
// not user input.
var ErrNoSuchField = errors.New("no such field on record")

// Records expose their editable columns to the override engine through
// FieldGet/FieldSet string accessors. The engine never reflects over
// structs; each record kind enumerates its own columns below. Values cross
// this boundary in storage units ("1"/"0" for booleans, unix seconds for
// dates, seconds for durations).

func fmtInt(v int) string       { return strconv.Itoa(v) }
func fmtInt64(v int64) string   { return strconv.FormatInt(v, 10) }
func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func fmtBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseInt(s string) (int, error)     { return strconv.Atoi(s) }
func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
func parseBool(s string) (bool, error) {
	switch s {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, errors.New("not a boolean value: " + s)
}

// optional pointer helpers for the override records

func getStr(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func getInt(p *int) (string, bool) {
	if p == nil {
		return "", false
	}
	return fmtInt(*p), true
}

func getInt64(p *int64) (string, bool) {
	if p == nil {
		return "", false
	}
	return fmtInt64(*p), true
}

func getBool(p *bool) (string, bool) {
	if p == nil {
		return "", false
	}
	return fmtBool(*p), true
}

func getFloat(p *float64) (string, bool) {
	if p == nil {
		return "", false
	}
	return fmtFloat(*p), true
}

func setStr(p **string, v *string) error {
	if v == nil {
		*p = nil
		return nil
	}
	s := *v
	*p = &s
	return nil
}

func setInt(p **int, v *string) error {
	if v == nil {
		*p = nil
		return nil
	}
	n, err := parseInt(*v)
	if err != nil {
		return err
	}
	*p = &n
	return nil
}

func setInt64(p **int64, v *string) error {
	if v == nil {
		*p = nil
		return nil
	}
	n, err := parseInt64(*v)
	if err != nil {
		return err
	}
	*p = &n
	return nil
}

func setBool(p **bool, v *string) error {
	if v == nil {
		*p = nil
		return nil
	}
	b, err := parseBool(*v)
	if err != nil {
		return err
	}
	*p = &b
	return nil
}

func setFloat(p **float64, v *string) error {
	if v == nil {
		*p = nil
		return nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return err
	}
	*p = &f
	return nil
}

// FieldGet returns the stored value of name. The global record always has
// a value for its fields, so ok is true for every known field.
func (a *Assignment) FieldGet(name string) (string, bool) {
	switch name {
	case "assignment_type":
		return string(a.AssignmentType), true
	case "description":
		return a.Description, true
	case "visible":
		return fmtBool(a.Visible), true
	case "open_date":
		return fmtInt64(a.OpenDate), true
	case "reduced_scoring_date":
		return fmtInt64(a.ReducedScoringDate), true
	case "due_date":
		return fmtInt64(a.DueDate), true
	case "answer_date":
		return fmtInt64(a.AnswerDate), true
	case "enable_reduced_scoring":
		return fmtBool(a.EnableReducedScoring), true
	case "set_header":
		return a.SetHeader, true
	case "hardcopy_header":
		return a.HardcopyHeader, true
	case "time_limit":
		return fmtInt64(a.TimeLimit), true
	case "time_interval":
		return fmtInt64(a.TimeInterval), true
	case "versions_per_interval":
		return fmtInt(a.VersionsPerInterval), true
	case "attempts_per_version":
		return fmtInt(a.AttemptsPerVersion), true
	case "problem_rand_order":
		return fmtBool(a.ProblemRandOrder), true
	case "problems_per_page":
		return fmtInt(a.ProblemsPerPage), true
	case "hide_score":
		return a.HideScore, true
	case "hide_score_by_problem":
		return a.HideScoreByProblem, true
	case "hide_work":
		return a.HideWork, true
	case "restrict_ip":
		return a.RestrictIP, true
	case "relax_restrict_ip":
		return a.RelaxRestrictIP, true
	}
	return "", false
}

// FieldSet stores value under name. A nil value resets the column to its
// zero value; override semantics never clear global columns through any
// other path.
func (a *Assignment) FieldSet(name string, value *string) error {
	str := func() string {
		if value == nil {
			return ""
		}
		return *value
	}
	switch name {
	case "assignment_type":
		a.AssignmentType = AssignmentType(str())
	case "description":
		a.Description = str()
	case "visible":
		b, err := parseBool(str())
		if err != nil {
			return err
		}
		a.Visible = b
	case "open_date":
		return setGlobalInt64(&a.OpenDate, value)
	case "reduced_scoring_date":
		return setGlobalInt64(&a.ReducedScoringDate, value)
	case "due_date":
		return setGlobalInt64(&a.DueDate, value)
	case "answer_date":
		return setGlobalInt64(&a.AnswerDate, value)
	case "enable_reduced_scoring":
		b, err := parseBool(str())
		if err != nil {
			return err
		}
		a.EnableReducedScoring = b
	case "set_header":
		a.SetHeader = str()
	case "hardcopy_header":
		a.HardcopyHeader = str()
	case "time_limit":
		return setGlobalInt64(&a.TimeLimit, value)
	case "time_interval":
		return setGlobalInt64(&a.TimeInterval, value)
	case "versions_per_interval":
		return setGlobalInt(&a.VersionsPerInterval, value)
	case "attempts_per_version":
		return setGlobalInt(&a.AttemptsPerVersion, value)
	case "problem_rand_order":
		b, err := parseBool(str())
		if err != nil {
			return err
		}
		a.ProblemRandOrder = b
	case "problems_per_page":
		return setGlobalInt(&a.ProblemsPerPage, value)
	case "hide_score":
		a.HideScore = str()
	case "hide_score_by_problem":
		a.HideScoreByProblem = str()
	case "hide_work":
		a.HideWork = str()
	case "restrict_ip":
		a.RestrictIP = str()
	case "relax_restrict_ip":
		a.RelaxRestrictIP = str()
	default:
		return ErrNoSuchField
	}
	return nil
}

func setGlobalInt(dst *int, v *string) error {
	if v == nil || *v == "" {
		*dst = 0
		return nil
	}
	n, err := parseInt(*v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setGlobalInt64(dst *int64, v *string) error {
	if v == nil || *v == "" {
		*dst = 0
		return nil
	}
	n, err := parseInt64(*v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func (u *UserAssignment) FieldGet(name string) (string, bool) {
	switch name {
	case "open_date":
		return getInt64(u.OpenDate)
	case "reduced_scoring_date":
		return getInt64(u.ReducedScoringDate)
	case "due_date":
		return getInt64(u.DueDate)
	case "answer_date":
		return getInt64(u.AnswerDate)
	case "enable_reduced_scoring":
		return getBool(u.EnableReducedScoring)
	case "time_limit":
		return getInt64(u.TimeLimit)
	case "time_interval":
		return getInt64(u.TimeInterval)
	case "versions_per_interval":
		return getInt(u.VersionsPerInterval)
	case "attempts_per_version":
		return getInt(u.AttemptsPerVersion)
	case "problem_rand_order":
		return getBool(u.ProblemRandOrder)
	case "problems_per_page":
		return getInt(u.ProblemsPerPage)
	case "hide_score":
		return getStr(u.HideScore)
	case "hide_score_by_problem":
		return getStr(u.HideScoreByProblem)
	case "hide_work":
		return getStr(u.HideWork)
	}
	return "", false
}

func (u *UserAssignment) FieldSet(name string, value *string) error {
	switch name {
	case "open_date":
		return setInt64(&u.OpenDate, value)
	case "reduced_scoring_date":
		return setInt64(&u.ReducedScoringDate, value)
	case "due_date":
		return setInt64(&u.DueDate, value)
	case "answer_date":
		return setInt64(&u.AnswerDate, value)
	case "enable_reduced_scoring":
		return setBool(&u.EnableReducedScoring, value)
	case "time_limit":
		return setInt64(&u.TimeLimit, value)
	case "time_interval":
		return setInt64(&u.TimeInterval, value)
	case "versions_per_interval":
		return setInt(&u.VersionsPerInterval, value)
	case "attempts_per_version":
		return setInt(&u.AttemptsPerVersion, value)
	case "problem_rand_order":
		return setBool(&u.ProblemRandOrder, value)
	case "problems_per_page":
		return setInt(&u.ProblemsPerPage, value)
	case "hide_score":
		return setStr(&u.HideScore, value)
	case "hide_score_by_problem":
		return setStr(&u.HideScoreByProblem, value)
	case "hide_work":
		return setStr(&u.HideWork, value)
	}
	return ErrNoSuchField
}

func (p *Problem) FieldGet(name string) (string, bool) {
	switch name {
	case "source_file":
		return p.SourceFile, true
	case "value":
		return fmtInt(p.Value), true
	case "max_attempts":
		return fmtInt(p.MaxAttempts), true
	case "show_me_another":
		return fmtInt(p.ShowMeAnother), true
	case "pr_period":
		return fmtInt(p.PrPeriod), true
	case "att_to_open_children":
		return fmtInt(p.AttToOpenChildren), true
	case "counts_parent_grade":
		return fmtBool(p.CountsParentGrade), true
	}
	return "", false
}

func (p *Problem) FieldSet(name string, value *string) error {
	str := func() string {
		if value == nil {
			return ""
		}
		return *value
	}
	switch name {
	case "source_file":
		p.SourceFile = str()
	case "value":
		return setGlobalInt(&p.Value, value)
	case "max_attempts":
		return setGlobalInt(&p.MaxAttempts, value)
	case "show_me_another":
		return setGlobalInt(&p.ShowMeAnother, value)
	case "pr_period":
		return setGlobalInt(&p.PrPeriod, value)
	case "att_to_open_children":
		return setGlobalInt(&p.AttToOpenChildren, value)
	case "counts_parent_grade":
		b, err := parseBool(str())
		if err != nil {
			return err
		}
		p.CountsParentGrade = b
	default:
		return ErrNoSuchField
	}
	return nil
}

func (u *UserProblem) FieldGet(name string) (string, bool) {
	switch name {
	case "source_file":
		return getStr(u.SourceFile)
	case "value":
		return getInt(u.Value)
	case "max_attempts":
		return getInt(u.MaxAttempts)
	case "show_me_another":
		return getInt(u.ShowMeAnother)
	case "pr_period":
		return getInt(u.PrPeriod)
	case "att_to_open_children":
		return getInt(u.AttToOpenChildren)
	case "counts_parent_grade":
		return getBool(u.CountsParentGrade)
	case "problem_seed":
		return getInt(u.ProblemSeed)
	case "status":
		return getFloat(u.Status)
	case "attempted":
		return getInt(u.Attempted)
	case "num_correct":
		return getInt(u.NumCorrect)
	case "num_incorrect":
		return getInt(u.NumIncorrect)
	case "last_answer":
		return getStr(u.LastAnswer)
	}
	return "", false
}

func (u *UserProblem) FieldSet(name string, value *string) error {
	switch name {
	case "source_file":
		return setStr(&u.SourceFile, value)
	case "value":
		return setInt(&u.Value, value)
	case "max_attempts":
		return setInt(&u.MaxAttempts, value)
	case "show_me_another":
		return setInt(&u.ShowMeAnother, value)
	case "pr_period":
		return setInt(&u.PrPeriod, value)
	case "att_to_open_children":
		return setInt(&u.AttToOpenChildren, value)
	case "counts_parent_grade":
		return setBool(&u.CountsParentGrade, value)
	case "problem_seed":
		return setInt(&u.ProblemSeed, value)
	case "status":
		return setFloat(&u.Status, value)
	case "attempted":
		return setInt(&u.Attempted, value)
	case "num_correct":
		return setInt(&u.NumCorrect, value)
	case "num_incorrect":
		return setInt(&u.NumIncorrect, value)
	case "last_answer":
		return setStr(&u.LastAnswer, value)
	}
	return ErrNoSuchField
}
