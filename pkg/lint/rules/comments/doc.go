// Package comments implements the CM rule group: function docstrings
// (CM01), spacing after the # marker (CM02), and block comment style
// (CM03).
package comments
