package children

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportSummary(t *testing.T) {
	assert.Equal(t, "Imported 1 profile.", ImportSummary(1, 0))
	assert.Equal(t, "Imported 2 profiles. 1 already existed and were skipped.", ImportSummary(2, 1))
	assert.Equal(t, "Imported 0 profiles. 3 already existed and were skipped.", ImportSummary(0, 3))
}
