package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/craftplan/craftplan-go/pkg/utils"
)

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, int64(1), utils.CeilDiv(1, 10))
	assert.Equal(t, int64(1), utils.CeilDiv(10, 10))
	assert.Equal(t, int64(2), utils.CeilDiv(11, 10))
	assert.Equal(t, int64(5), utils.CeilDiv(5, 1))
	assert.Equal(t, int64(0), utils.CeilDiv(0, 7))
}

func TestMinMaxInt64(t *testing.T) {
	assert.Equal(t, int64(3), utils.MinInt64(3, 9))
	assert.Equal(t, int64(3), utils.MinInt64(9, 3))
	assert.Equal(t, int64(9), utils.MaxInt64(3, 9))
	assert.Equal(t, int64(-1), utils.MaxInt64(-4, -1))
}

func TestGenerateListID(t *testing.T) {
	id := utils.GenerateListID("Tier 3 Workshop!")

	assert.Contains(t, id, "tier-3-workshop-")
	// Distinct calls with the same name must not collide
	assert.NotEqual(t, id, utils.GenerateListID("Tier 3 Workshop!"))
}
