// Package sanitizer normalizes user input before validation.
//
// Transforms are plain func(T) T values chained with Apply or Compose:
//
//	name := sanitizer.Apply(req.DisplayName, sanitizer.RemoveControlChars, sanitizer.SingleLine)
//	email := sanitizer.Trim(req.Email)
//
// MaskEmail hides the local part of an address for log output.
package sanitizer
