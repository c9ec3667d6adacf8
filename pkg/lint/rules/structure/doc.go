// Package structure implements the ST rule group: the deprecated genr
// prefix (ST01), implicit declarations (ST02), @-style string
// substitution (ST03), and unbalanced blocks (ST04).
package structure
