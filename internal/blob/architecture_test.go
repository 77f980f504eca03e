package blob

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestInfraImportsStayBehindFacades ensures infra packages are only reached
// through their facade: blob backends through internal/blob and persistence
// backends through internal/core. Infra packages may import each other.
func TestInfraImportsStayBehindFacades(t *testing.T) {
	const module = "restaurantcore"
	guards := []struct {
		infra   string
		allowed string
	}{
		{module + "/internal/infra/blob", module + "/internal/blob"},
		{module + "/internal/infra/persistence", module + "/internal/core"},
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, module+"/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		if hasPrefix(pkg.PkgPath, module+"/internal/infra") {
			continue
		}
		for _, g := range guards {
			if hasPrefix(pkg.PkgPath, g.allowed) {
				continue
			}
			for importPath := range pkg.Imports {
				if hasPrefix(importPath, g.infra) {
					seen[pkg.PkgPath+": "+importPath] = struct{}{}
				}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden infra import: %s", v)
		}
		t.Fatalf("found %d forbidden infra imports", len(violations))
	}
}

func hasPrefix(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
