package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpk1212/heartglow-go/internal/models"
)

var knownCriteriaTypes = map[models.CriteriaType]bool{
	models.CriteriaAnyMessage:         true,
	models.CriteriaDistinctRecipients: true,
	models.CriteriaMatchIntent:        true,
	models.CriteriaMatchTone:          true,
	models.CriteriaMatchRecipient:     true,
	models.CriteriaOther:              true,
}

func TestBuiltinCatalogIsWellFormed(t *testing.T) {
	defs := Builtin()
	assert.NotEmpty(t, defs)

	seen := map[string]bool{}
	for _, def := range defs {
		assert.NotEmpty(t, def.ID)
		assert.NotEmpty(t, def.Name)
		assert.False(t, seen[def.ID], "duplicate id %s", def.ID)
		seen[def.ID] = true

		assert.GreaterOrEqual(t, def.RewardXP, 0, "%s", def.ID)
		assert.True(t, knownCriteriaTypes[def.Criteria.Type], "%s has unknown criteria type %q", def.ID, def.Criteria.Type)
		assert.GreaterOrEqual(t, def.Criteria.Goal(), 1, "%s", def.ID)

		if def.RewardUnlock != nil {
			assert.NotEmpty(t, *def.RewardUnlock, "%s", def.ID)
		}
	}
}

func TestBuiltinReturnsCopy(t *testing.T) {
	a := Builtin()
	a[0].Name = "mutated"
	b := Builtin()
	assert.NotEqual(t, "mutated", b[0].Name)
}
