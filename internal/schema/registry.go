package schema

var yesNo = map[string]string{"1": "Yes", "0": "No"}

var hideScoreLabels = map[string]string{
	"no":                 "No",
	"yes":                "Yes",
	"before_answer_date": "Before answer date",
}

// New builds the default field registry. The table is the single source of
// truth for override policy, defaults, unit conversion, and label maps;
// resolver and controllers consult it and carry no per-field knowledge of
// their own.
func New() *Schema {
	s := &Schema{byName: map[string]*Descriptor{}}

	// Assignment scope.
	s.register(&Descriptor{Name: "assignment_type", Label: "Assignment type", Kind: KindChoice, Policy: PolicyAll, Scope: ScopeAssignment, Default: "standard",
		Labels: map[string]string{
			"standard":             "Standard homework",
			"timed_test":           "Timed test",
			"proctored_timed_test": "Proctored timed test",
			"nested_review":        "Just-in-time review",
		}})
	s.register(&Descriptor{Name: "description", Label: "Description", Kind: KindEdit, Policy: PolicyAll, Scope: ScopeAssignment})
	s.register(&Descriptor{Name: "visible", Label: "Visible to students", Kind: KindChoice, Policy: PolicyAll, Scope: ScopeAssignment, Default: "1", Labels: yesNo})
	s.register(&Descriptor{Name: "set_header", Label: "Set header", Kind: KindEdit, Policy: PolicyAll, Scope: ScopeAssignment, Default: "defaultHeader"})
	s.register(&Descriptor{Name: "hardcopy_header", Label: "Hardcopy header", Kind: KindEdit, Policy: PolicyAll, Scope: ScopeAssignment, Default: "defaultHeader"})

	s.register(&Descriptor{Name: "open_date", Label: "Opens", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Date: true})
	s.register(&Descriptor{Name: "reduced_scoring_date", Label: "Reduced scoring starts", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Date: true})
	s.register(&Descriptor{Name: "due_date", Label: "Closes", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Date: true})
	s.register(&Descriptor{Name: "answer_date", Label: "Answers available", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Date: true})
	s.register(&Descriptor{Name: "enable_reduced_scoring", Label: "Reduced scoring enabled", Kind: KindChoice, Policy: PolicyAny, Scope: ScopeAssignment, Default: "0", Labels: yesNo})

	// Timed-test group. Durations edited in minutes, stored in seconds.
	s.register(&Descriptor{Name: "time_limit", Label: "Test time limit (min)", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Default: "0", Factor: 60})
	s.register(&Descriptor{Name: "time_interval", Label: "Time interval for new versions (min)", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Default: "0", Factor: 60})
	s.register(&Descriptor{Name: "versions_per_interval", Label: "Versions per interval", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Default: "0"})
	s.register(&Descriptor{Name: "attempts_per_version", Label: "Graded submissions per version", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Default: "0"})
	s.register(&Descriptor{Name: "problem_rand_order", Label: "Order problems randomly", Kind: KindChoice, Policy: PolicyAny, Scope: ScopeAssignment, Default: "0", Labels: yesNo})
	s.register(&Descriptor{Name: "problems_per_page", Label: "Problems per page", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeAssignment, Default: "1"})
	s.register(&Descriptor{Name: "hide_score:hide_score_by_problem", Label: "Show scores on finished versions", Kind: KindChoice, Policy: PolicyAny, Scope: ScopeAssignment, Labels: hideScoreLabels})
	s.register(&Descriptor{Name: "hide_work", Label: "Show work on finished versions", Kind: KindChoice, Policy: PolicyAny, Scope: ScopeAssignment, Default: "no", Labels: hideScoreLabels})

	// Proctored-test group.
	s.register(&Descriptor{Name: "restrict_ip", Label: "Restrict access by IP", Kind: KindChoice, Policy: PolicyAll, Scope: ScopeAssignment, Default: "no",
		Labels: map[string]string{"no": "No", "restrict_to": "Restrict to", "deny_from": "Deny from"}})
	s.register(&Descriptor{Name: "relax_restrict_ip", Label: "Relax IP restrictions", Kind: KindChoice, Policy: PolicyAll, Scope: ScopeAssignment, Default: "no",
		Labels: map[string]string{"no": "No", "after_answer_date": "After answer date", "after_version_answer_date": "After version answer date"}})

	// Problem scope.
	s.register(&Descriptor{Name: "source_file", Label: "Source file", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeProblem})
	s.register(&Descriptor{Name: "value", Label: "Weight", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeProblem, Default: "1"})
	s.register(&Descriptor{Name: "max_attempts", Label: "Max attempts", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeProblem, Default: "-1",
		Labels: map[string]string{"-1": "unlimited"}})
	s.register(&Descriptor{Name: "show_me_another", Label: "Show me another after", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeProblem, Default: "-1",
		Labels: map[string]string{"-1": "never"}})
	s.register(&Descriptor{Name: "pr_period", Label: "Rerandomize after attempts", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeProblem, Default: "-1",
		Labels: map[string]string{"-1": "never"}})
	s.register(&Descriptor{Name: "att_to_open_children", Label: "Attempts to open children", Kind: KindEdit, Policy: PolicyAny, Scope: ScopeProblem, Default: "0"})
	s.register(&Descriptor{Name: "counts_parent_grade", Label: "Counts toward parent grade", Kind: KindChoice, Policy: PolicyAny, Scope: ScopeProblem, Default: "0", Labels: yesNo})

	// User-only scope: stored on override records exclusively.
	s.register(&Descriptor{Name: "problem_seed", Label: "Seed", Kind: KindEdit, Policy: PolicyOne, Scope: ScopeUser})
	s.register(&Descriptor{Name: "status", Label: "Recorded score", Kind: KindEdit, Policy: PolicyOne, Scope: ScopeUser, Default: "0"})
	s.register(&Descriptor{Name: "attempted", Label: "Attempted", Kind: KindHidden, Policy: PolicyNone, Scope: ScopeUser})
	s.register(&Descriptor{Name: "num_correct", Label: "Correct attempts", Kind: KindHidden, Policy: PolicyNone, Scope: ScopeUser})
	s.register(&Descriptor{Name: "num_incorrect", Label: "Incorrect attempts", Kind: KindHidden, Policy: PolicyNone, Scope: ScopeUser})
	s.register(&Descriptor{Name: "last_answer", Label: "Last answer", Kind: KindHidden, Policy: PolicyNone, Scope: ScopeUser})

	return s
}
