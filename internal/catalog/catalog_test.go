package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/hwdiag/internal/engine"
	"github.com/roach88/hwdiag/internal/ir"
)

func TestDefault_Order(t *testing.T) {
	entries := Default()
	assert.Len(t, entries, 8)
	assert.Equal(t, ir.Symptom("nao_liga"), entries[0].ID)
	assert.Equal(t, ir.Symptom("ruidos"), entries[7].ID)
}

func TestLabel(t *testing.T) {
	label, ok := Label("sem_video")
	assert.True(t, ok)
	assert.Equal(t, "Sem vídeo (monitor sem sinal)", label)

	_, ok = Label("unknown_tag")
	assert.False(t, ok)
}

func TestUnknown(t *testing.T) {
	got := Unknown(ir.ParseSymptoms([]string{"lento", "x", "y", "x", "ruidos"}))
	assert.Equal(t, []ir.Symptom{"x", "y"}, got)
	assert.Empty(t, Unknown(nil))
}

// Every symptom referenced by the default rule table must be offered to users.
func TestDefaultRulesCoveredByCatalog(t *testing.T) {
	for _, rule := range engine.DefaultRules() {
		for _, s := range rule.Symptoms {
			assert.True(t, Known(s), "rule %s uses symptom %q missing from catalog", rule.ID, s)
		}
	}
}
