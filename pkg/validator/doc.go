// Package validator builds request validation from small rules.
//
// A Rule pairs a Check func with the error reported when it fails. Apply
// runs every rule and collects the failures into ValidationErrors, which
// implements error:
//
//	err := validator.Apply(
//		validator.Required("email", req.Email),
//		validator.ValidEmail("email", req.Email),
//		validator.LenBetween("password", req.Password, 6, 12),
//	)
//
// Each ValidationError carries a translation key and values so HTTP layers
// can render localized messages.
package validator
