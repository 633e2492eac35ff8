package db_test

import (
	"testing"

	"github.com/gnames/gntaxa/internal/iodb"
	"github.com/gnames/gntaxa/pkg/db"
	"github.com/stretchr/testify/assert"
)

// TestOperatorContract ensures the iodb implementation satisfies the
// db.Operator interface. The assignment is a compile-time check.
func TestOperatorContract(t *testing.T) {
	var _ db.Operator = iodb.NewPgxOperator()
	assert.True(t, true, "iodb operator should implement db.Operator")
}
