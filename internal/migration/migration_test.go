package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepsCreateResultsTable(t *testing.T) {
	runner := NewRunner()
	steps := runner.steps()

	assert.Equal(t, "1.0.0", runner.Version())
	assert.Len(t, steps, 2)
	assert.Contains(t, steps[0].sql, "CREATE TABLE IF NOT EXISTS conversion_results")
	for _, col := range []string{"id UUID PRIMARY KEY", "filename", "layout", "rows JSONB", "created_at", "expires_at"} {
		assert.Contains(t, steps[0].sql, col)
	}
	for _, s := range steps {
		assert.True(t, strings.Contains(s.sql, "IF NOT EXISTS"), "%s must be idempotent", s.name)
	}
}
