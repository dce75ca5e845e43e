package service

import (
	"strings"

	"courseset_backend/internal/util"
)

// FieldInput is one submitted field value plus its override checkbox.
// Override only matters when override records are being targeted.
type FieldInput struct {
	Raw      string
	Override bool
}

// Submission is the parsed form of a submitted edit batch. Every editable
// value arrives keyed as "recordType.recordID.fieldName", optionally with
// a trailing ".override" marking the override checkbox for that field, so
// the record and flag can be reconstructed with no other context.
type Submission struct {
	// Assignment fields for the one set being edited, by field name.
	Assignment map[string]FieldInput
	// Problem fields by problem identifier then field name.
	Problems map[int64]map[string]FieldInput
}

const overrideSuffix = ".override"

// ParseSubmission reconstructs a Submission from raw submitted key/value
// pairs. Keys with an unrecognized record type are ignored: stale or extra
// form values are expected and harmless. Malformed keys for known record
// types are ignored the same way.
func ParseSubmission(values map[string]string) (*Submission, error) {
	sub := &Submission{
		Assignment: map[string]FieldInput{},
		Problems:   map[int64]map[string]FieldInput{},
	}

	for key, value := range values {
		override := false
		if strings.HasSuffix(key, overrideSuffix) {
			key = strings.TrimSuffix(key, overrideSuffix)
			override = true
		}

		parts := strings.SplitN(key, ".", 3)
		if len(parts) != 3 {
			continue
		}
		recordType, recordID, field := parts[0], parts[1], parts[2]

		switch recordType {
		case "assignment":
			in := sub.Assignment[field]
			if override {
				in.Override = isTruthy(value)
			} else {
				in.Raw = value
			}
			sub.Assignment[field] = in
		case "problem":
			pid, err := util.ParseInt64(recordID)
			if err != nil || pid <= 0 {
				continue
			}
			group, ok := sub.Problems[pid]
			if !ok {
				group = map[string]FieldInput{}
				sub.Problems[pid] = group
			}
			in := group[field]
			if override {
				in.Override = isTruthy(value)
			} else {
				in.Raw = value
			}
			group[field] = in
		}
	}
	return sub, nil
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// NonEmpty reports whether any submitted field in the group carries a
// non-empty value with its override flag on. Bulk edits use this to skip
// creating override records that would hold nothing.
func NonEmpty(group map[string]FieldInput) bool {
	for _, in := range group {
		if in.Override && strings.TrimSpace(in.Raw) != "" {
			return true
		}
	}
	return false
}
