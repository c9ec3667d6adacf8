// Package naming provides lint rules for Hansl identifier naming.
//
// Rules in this package:
//   - NM01: function names use lower_snake_case
//   - NM02: variable names start lowercase and use snake_case
//   - NM03: identifier length limits (31 is a hard interpreter limit)
//   - NM04: identifiers must not shadow built-in functions or commands
package naming
