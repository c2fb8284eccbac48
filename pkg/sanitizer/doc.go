// Package sanitizer normalizes booking input before validation and storage.
//
// All functions are idempotent. Invalid input is never rejected here; the
// validator decides what is acceptable once the input is normalized.
//
// Normalization includes:
//   - Identifiers: trim surrounding whitespace
//   - Room types: collapse inner whitespace and trim
//   - Room requests: normalize each room type in place, order preserved
package sanitizer
