package sqlite

import (
	"testing"

	"gameframework/testutil"
)

// TestImportsStayInPersistenceLayer keeps the adapter free of core and authoring dependencies.
func TestImportsStayInPersistenceLayer(t *testing.T) {
	forbidden := testutil.OnlyModuleImports("gameframework",
		"gameframework/pkg/domain",
		"gameframework/internal/codec",
		"gameframework/internal/infra/persistence/memory",
		"gameframework/internal/infra/persistence/snapshotsql",
	)
	testutil.AssertNoDirectImports(t, ".", forbidden, "persistence adapters depend on contracts and codecs only")
}
