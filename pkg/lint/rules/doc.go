// Package rules provides the built-in lint rules for Hansl scripts.
//
// Rules are organized by group, with IDs that sort into a stable
// catalog order:
//   - naming: identifier case and length conventions (NM01-NM04)
//   - whitespace: spacing, indentation, and blank lines (WS01-WS06)
//   - length: line and function size limits (LL01-LL02)
//   - comments: docstrings and comment formatting (CM01-CM03)
//   - structure: legacy constructs and block balance (ST01-ST04)
//   - project: whole-file checks run across a project (PF01-PF03)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/hansl-tools/hanslint/pkg/lint/rules"
//
// Individual groups can also be imported:
//
//	import _ "github.com/hansl-tools/hanslint/pkg/lint/rules/naming"
//	import _ "github.com/hansl-tools/hanslint/pkg/lint/rules/whitespace"
package rules
