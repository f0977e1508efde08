package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildResultsQuery(t *testing.T) {
	sql, args := buildResultsQuery("SELECT * FROM t", ResultsQuery{})
	assert.Equal(t, "SELECT * FROM t ORDER BY event, location, position", sql)
	assert.Empty(t, args)

	loc := 3
	sql, args = buildResultsQuery("SELECT * FROM t", ResultsQuery{Event: "Crit", Location: &loc, Limit: 50})
	assert.Equal(t, "SELECT * FROM t WHERE event = $1 AND location = $2 ORDER BY event, location, position LIMIT $3", sql)
	assert.Equal(t, []any{"Crit", 3, 50}, args)
}
