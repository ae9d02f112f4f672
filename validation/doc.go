// Package validation checks seqkit inputs and reports failures as
// *errors.AppError with per-field details.
//
// # Struct Tag Validation
//
//	type EvaluateRequest struct {
//	    Items []any `json:"items" validate:"required"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("op", stage.Op).Min("depth", depth, 0)
//	err := v.Err()
package validation
