// Package validation provides rule-string input validation for HTTP handlers.
//
// Rules are expressed as pipe-separated strings on a map of field names:
//
//	v := validation.Make(map[string]string{
//	    "name":  "weekly",
//	    "email": "ops@example.com",
//	}, validation.Rules{
//	    "name":  "required|alpha_dash|max:100",
//	    "email": "required|email",
//	})
//
//	if v.Fails() {
//	    // v.Errors() returns *Errors with Bag map[string][]string
//	    // JSON: {"errors": {"field": ["message1", "message2"]}}
//	}
//
// # Available Rules
//
// String rules:
//   - required — field must be present and non-empty
//   - string   — passes (all form values are strings)
//   - min:n    — minimum n UTF-8 characters
//   - max:n    — maximum n UTF-8 characters
//   - between:min,max — length between min and max (inclusive)
//   - alpha_dash — letters, numbers, dashes, underscores
//   - regex:pattern — must match regexp pattern
//
// Format rules:
//   - email — valid RFC 5322 email address
//
// Type rules:
//   - numeric — parseable as float64
//   - integer — parseable as int
//   - boolean — true/false/1/0/yes/no (case-insensitive)
//   - in:a,b,c — value must be in the comma-separated list
//
// Control rules:
//   - nullable — allows empty values through subsequent rules
package validation
