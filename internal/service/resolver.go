package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"courseset_backend/internal/schema"
)

const displayDateLayout = "01/02/2006 at 03:04pm"

// Resolver applies submitted field values onto records and computes the
// effective values shown back to instructors. It is stateless apart from
// the schema and runs once per field per edit context.
type Resolver struct {
	Schema *schema.Schema
}

func NewResolver(s *schema.Schema) *Resolver {
	return &Resolver{Schema: s}
}

// ApplyField writes one submitted field onto rec and reports whether the
// stored value actually changed. targets is the number of override records
// in the edit context; 0 means the global record itself is being edited.
//
// Fields that are not editable under their policy for this targeting count
// are silent no-ops: submitted forms routinely carry extra or stale
// fields. An override checkbox left off clears the stored override so the
// record inherits from the global again.
func (r *Resolver) ApplyField(d *schema.Descriptor, rec FieldRecord, in FieldInput, targets int) (bool, error) {
	if !d.Editable(targets) {
		return false, nil
	}
	parts := d.PartNames()
	global := targets == 0

	if targets > 0 && !in.Override {
		return clearParts(rec, parts, global)
	}

	raw := strings.TrimSpace(in.Raw)
	if raw == "" {
		raw = d.Default
	}
	if raw == "" {
		// No value and no default: the field goes back to unset.
		return clearParts(rec, parts, global)
	}

	vals := []string{raw}
	if len(parts) > 1 {
		vals = strings.Split(raw, ":")
		if len(vals) != len(parts) {
			return false, fmt.Errorf("%w: composite field %q expects %d parts, got %d",
				errSchemaBug, d.Name, len(parts), len(vals))
		}
	}

	changed := false
	for i, part := range parts {
		val := vals[i]
		if v, ok := d.ValueFor(val); ok {
			val = v
		}
		if d.Factor > 0 && val != "" {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				val = strconv.FormatFloat(f*d.Factor, 'f', -1, 64)
			}
		}
		old, wasSet := rec.FieldGet(part)
		if val == "" {
			if wasSet && old != "" {
				if err := rec.FieldSet(part, nil); err != nil {
					return changed, wrapFieldErr(d, part, err)
				}
				changed = true
			}
			continue
		}
		if wasSet && old == val {
			continue
		}
		if err := rec.FieldSet(part, &val); err != nil {
			return changed, wrapFieldErr(d, part, err)
		}
		changed = true
	}
	return changed, nil
}

// clearParts resets the storage fields. Override records go back to unset
// (inherit); globals go to their zero value, and clearing an already-zero
// global is not a change.
func clearParts(rec FieldRecord, parts []string, global bool) (bool, error) {
	changed := false
	for _, part := range parts {
		old, wasSet := rec.FieldGet(part)
		if !wasSet {
			continue
		}
		if global && old == "" {
			continue
		}
		if err := rec.FieldSet(part, nil); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

// DisplayValue is the resolved, display-ready form of one field for one
// record row.
type DisplayValue struct {
	Field      string `json:"field"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	Global     string `json:"global,omitempty"`
	Overridden bool   `json:"overridden"`
	Editable   bool   `json:"editable"`
}

// DisplayField computes the effective display value of d given the global
// record and an optional override record. Reads invert the write pipeline:
// divide by the conversion factor, map stored values to labels, and format
// date fields with a short date/time layout.
func (r *Resolver) DisplayField(d *schema.Descriptor, global, override FieldRecord, targets int) DisplayValue {
	parts := d.PartNames()

	overridden := override != nil
	if overridden {
		for _, part := range parts {
			if _, ok := override.FieldGet(part); !ok {
				overridden = false
				break
			}
		}
	}

	render := func(rec FieldRecord) string {
		if rec == nil {
			return ""
		}
		out := make([]string, len(parts))
		for i, part := range parts {
			v, _ := rec.FieldGet(part)
			out[i] = r.displayOne(d, v)
		}
		return strings.Join(out, ":")
	}

	dv := DisplayValue{
		Field:    d.Name,
		Label:    d.Label,
		Global:   render(global),
		Editable: d.Kind != schema.KindHidden && d.Editable(targets),
	}
	if overridden {
		dv.Overridden = true
		dv.Value = render(override)
	} else {
		dv.Value = dv.Global
	}
	return dv
}

func (r *Resolver) displayOne(d *schema.Descriptor, v string) string {
	if v == "" {
		return ""
	}
	if d.Date {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil && sec > 0 {
			return time.Unix(sec, 0).UTC().Format(displayDateLayout)
		}
		return v
	}
	if d.Factor > 0 {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			v = strconv.FormatFloat(f/d.Factor, 'f', -1, 64)
		}
	}
	return d.LabelFor(v)
}
