package service

import (
	"errors"
	"fmt"

	"courseset_backend/internal/model"
	"courseset_backend/internal/schema"
	"courseset_backend/internal/util"
)

var errSchemaBug = util.ErrSchemaBug

// wrapFieldErr distinguishes engine bugs (schema and accessors out of
// step) from plain bad input on a field.
func wrapFieldErr(d *schema.Descriptor, part string, err error) error {
	if errors.Is(err, model.ErrNoSuchField) {
		return fmt.Errorf("%w: field %q has no storage accessor for part %q", util.ErrSchemaBug, d.Name, part)
	}
	return fmt.Errorf("field %q: %w", d.Name, err)
}
