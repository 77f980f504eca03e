// Package sqlite provides dependency boundary tests for the sqlite persistence adapter.
package sqlite

import (
	"go/build"
	"strings"
	"testing"
)

var allowedModuleImports = map[string]struct{}{
	"restaurantcore/pkg/domain":                        {},
	"restaurantcore/internal/infra/persistence/memory": {},
}

func TestImportsAreDomainOrMemory(t *testing.T) {
	pkg, err := build.Default.ImportDir(".", 0)
	if err != nil {
		t.Fatalf("import dir: %v", err)
	}
	for _, imp := range pkg.Imports {
		if !strings.HasPrefix(imp, "restaurantcore/") {
			continue
		}
		if _, ok := allowedModuleImports[imp]; ok {
			continue
		}
		t.Fatalf("unexpected dependency: %s", imp)
	}
}
