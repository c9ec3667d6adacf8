// Package whitespace provides lint rules for Hansl spacing and layout.
//
// Rules in this package:
//   - WS01: single space around binary operators
//   - WS02: no space before a comma, one space after
//   - WS03: no trailing whitespace
//   - WS04: consistent indentation style and width
//   - WS05: limit consecutive blank lines
//   - WS06: space between a block keyword and its condition
package whitespace
