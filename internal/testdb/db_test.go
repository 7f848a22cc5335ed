package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL_Precedence(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GOALPOST_TEST_DB_URL", "")
	t.Setenv("GOALPOST_DATABASE_URL", "")
	assert.False(t, IsIntegrationTestEnvironment())

	t.Setenv("GOALPOST_DATABASE_URL", "postgres://c")
	assert.Equal(t, "postgres://c", URL())

	t.Setenv("GOALPOST_TEST_DB_URL", "postgres://b")
	assert.Equal(t, "postgres://b", URL())

	t.Setenv("DATABASE_URL", "postgres://a")
	assert.Equal(t, "postgres://a", URL())
	assert.True(t, IsIntegrationTestEnvironment())
}
