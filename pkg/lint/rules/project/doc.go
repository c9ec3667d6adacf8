// Package project implements the PF rule group, which looks at whole
// files rather than single lines: script extensions (PF01), header
// comments (PF02), and file length (PF03).
package project
