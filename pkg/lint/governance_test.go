//go:build governance

package lint_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/hansl-tools/hanslint"

// =============================================================================
// LAYERING TEST - Public packages must not depend on internal machinery
// =============================================================================

// TestGovernance_NoInternalImports verifies that nothing under pkg/ imports
// from internal/. The pkg tree is the embeddable library surface; pulling in
// CLI, storage, or server machinery would make it unusable on its own.
func TestGovernance_NoInternalImports(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			continue
		}
		for importPath := range p.Imports {
			if strings.HasPrefix(importPath, modulePath+"/internal") {
				t.Errorf("LAYERING VIOLATION: '%s' imports '%s'.\n"+
					"   Fix: move the shared code under pkg/ or invert the dependency.",
					strings.TrimPrefix(p.PkgPath, modulePath+"/"),
					strings.TrimPrefix(importPath, modulePath+"/"))
			}
		}
	}
}

// =============================================================================
// REGISTRATION TEST - Every rule package must be wired into the umbrella
// =============================================================================

// TestGovernance_AllRulePackagesImported verifies that every rule package
// under pkg/lint/rules is blank-imported by the rules umbrella package.
// A rule package that is not imported never runs its init() and its rules
// silently vanish from the binary.
func TestGovernance_AllRulePackagesImported(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/lint/rules/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	umbrellaPath := modulePath + "/pkg/lint/rules"
	var umbrella *packages.Package
	var rulePkgs []string

	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			continue
		}
		if p.PkgPath == umbrellaPath {
			umbrella = p
			continue
		}
		rulePkgs = append(rulePkgs, p.PkgPath)
	}

	if umbrella == nil {
		t.Fatal("Could not find pkg/lint/rules")
	}

	for _, sub := range rulePkgs {
		if _, ok := umbrella.Imports[sub]; !ok {
			t.Errorf("REGISTRATION VIOLATION: '%s' is not imported by pkg/lint/rules.\n"+
				"   Fix: add a blank import to rules/all.go so its init() runs.",
				strings.TrimPrefix(sub, modulePath+"/"))
		}
	}
}
