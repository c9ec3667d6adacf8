package rules

// Import all rule subpackages to register them with the global registry.
// This file triggers all init() functions in the rule packages.
import (
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules/comments"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules/length"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules/naming"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules/project"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules/structure"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules/whitespace"
)
