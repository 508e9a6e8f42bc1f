// Package sanitizer normalizes request input before validation and storage.
//
// All functions are idempotent. Invalid input yields an empty string or an empty
// slice rather than an error; validators decide whether empty is acceptable.
//
// Normalization includes:
//   - Names and notes: collapse inner whitespace, trim the ends
//   - Emails: trim and lowercase
//   - Slot labels: trim only, the label text is professor-defined
//   - Slices: drop empty values and duplicates after normalization, keep order
package sanitizer
