// Package schema is the declarative registry of every field an instructor
// can edit on an assignment, a problem, or a per-user override record. It
// is pure lookup data: built once at startup, never mutated afterwards.
package schema

import (
	"errors"
	"strings"

	"courseset_backend/internal/model"
)

// Kind says how a field is presented.
type Kind int

const (
	KindEdit   Kind = iota // free-text input
	KindChoice             // discrete choice from Labels
	KindHidden             // computed/informational, never an input
)

// Policy governs how many override records may be targeted when the field
// is written.
type Policy int

const (
	PolicyNone Policy = iota // never settable through submitted input
	PolicyAny                // settable for any targeting count
	PolicyOne                // settable only when exactly one override record is targeted
	PolicyAll                // settable only when editing the global record directly
)

// Scope names the record family a field is stored on.
type Scope int

const (
	ScopeAssignment Scope = iota
	ScopeProblem
	ScopeUser // user-only fields, stored on override records exclusively
)

// ErrUnknownField reports a Describe miss. A miss is a schema/engine bug,
// never recoverable user input.
var ErrUnknownField = errors.New("unknown field name")

// Descriptor describes one editable field.
type Descriptor struct {
	// Name is the submitted field key. Composite fields join their part
	// names with ":" and list them in Parts.
	Name    string
	Label   string
	Kind    Kind
	Policy  Policy
	Scope   Scope
	Default string

	// Factor converts display units to storage units on write (multiply)
	// and back on read (divide). Zero means no conversion.
	Factor float64

	// Date marks unix-second fields that display as short date/times.
	Date bool

	// Labels maps stored values to display labels; inverted on input.
	Labels map[string]string

	// Parts lists the underlying storage fields of a composite field, in
	// positional order. Nil for scalar fields.
	Parts []string
}

// PartNames returns the storage fields this descriptor writes, which is
// just the field name itself for scalar fields.
func (d *Descriptor) PartNames() []string {
	if len(d.Parts) > 0 {
		return d.Parts
	}
	return []string{d.Name}
}

// Editable reports whether the field may be written when targets override
// records are being edited at once (0 = editing the global record).
func (d *Descriptor) Editable(targets int) bool {
	switch d.Policy {
	case PolicyAny:
		return true
	case PolicyOne:
		return targets == 1
	case PolicyAll:
		return targets == 0
	}
	return false
}

// ValueFor inverts the label map: given a display label, return the stored
// value. Lookup is exact; values that already are stored values pass
// through unchanged by the caller.
func (d *Descriptor) ValueFor(label string) (string, bool) {
	for v, l := range d.Labels {
		if l == label {
			return v, true
		}
	}
	return "", false
}

// LabelFor returns the display label of a stored value, or the value
// itself when no label is registered.
func (d *Descriptor) LabelFor(value string) string {
	if l, ok := d.Labels[value]; ok {
		return l
	}
	return value
}

// Schema is the immutable field registry.
type Schema struct {
	byName map[string]*Descriptor
	order  []string
}

// Describe looks up a descriptor by submitted field name.
func (s *Schema) Describe(name string) (*Descriptor, error) {
	d, ok := s.byName[name]
	if !ok {
		return nil, ErrUnknownField
	}
	return d, nil
}

// DescribeStorage resolves a storage field (a composite part or a scalar
// name) back to its owning descriptor.
func (s *Schema) DescribeStorage(name string) (*Descriptor, error) {
	if d, ok := s.byName[name]; ok {
		return d, nil
	}
	for _, n := range s.order {
		d := s.byName[n]
		for _, p := range d.Parts {
			if p == name {
				return d, nil
			}
		}
	}
	return nil, ErrUnknownField
}

// Fields returns the descriptors of one scope in registration order.
func (s *Schema) Fields(scope Scope) []*Descriptor {
	var out []*Descriptor
	for _, n := range s.order {
		if d := s.byName[n]; d.Scope == scope {
			out = append(out, d)
		}
	}
	return out
}

// Visible applies the per-assignment-type filter: some field groups only
// exist for certain assignment types, and the user-only seed/status pair
// only shows when exactly one user is being edited.
func (s *Schema) Visible(d *Descriptor, at model.AssignmentType, singleUser bool) bool {
	timed := at == model.AssignmentTimedTest || at == model.AssignmentProctoredTimed
	switch d.Name {
	case "time_limit", "time_interval", "versions_per_interval",
		"attempts_per_version", "hide_work",
		"hide_score:hide_score_by_problem":
		return timed
	case "restrict_ip", "relax_restrict_ip":
		return at == model.AssignmentProctoredTimed
	case "reduced_scoring_date", "enable_reduced_scoring":
		return !timed
	case "att_to_open_children", "counts_parent_grade":
		return at == model.AssignmentNestedReview
	case "max_attempts", "show_me_another":
		return !timed
	case "problem_seed", "status":
		return singleUser
	}
	return true
}

func (s *Schema) register(d *Descriptor) {
	if strings.Contains(d.Name, ":") && len(d.Parts) == 0 {
		d.Parts = strings.Split(d.Name, ":")
	}
	s.byName[d.Name] = d
	s.order = append(s.order, d.Name)
}
