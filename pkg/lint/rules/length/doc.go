// Package length implements the LL rule group: limits on physical line
// width (LL01) and function body size (LL02).
package length
