package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hwdiag/internal/ir"
)

const twoRules = `
rule: {
	"overheat-reboot": {
		symptoms:       ["reinicia_sozinho", "superaquecendo"]
		diagnosis:      "Reinicializações devido a superaquecimento"
		cause:          "Temperatura alta"
		recommendation: "Limpe as ventoinhas"
	}
	noise: {
		symptoms:  ["ruidos"]
		diagnosis: "Ruídos estranhos (cliques/chiados)"
	}
}
`

func TestCompileRuleBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(twoRules)
	require.NoError(t, v.Err())

	rule, err := CompileRule(v.LookupPath(cue.ParsePath(`rule."overheat-reboot"`)))
	require.NoError(t, err)

	assert.Equal(t, "overheat-reboot", rule.ID)
	assert.Equal(t, []ir.Symptom{"reinicia_sozinho", "superaquecendo"}, rule.Symptoms)
	assert.Equal(t, "Reinicializações devido a superaquecimento", rule.Diagnosis)
	assert.Equal(t, "Temperatura alta", rule.Cause)
	assert.Equal(t, "Limpe as ventoinhas", rule.Recommendation)
}

func TestCompileRuleOptionalFields(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(twoRules)
	require.NoError(t, v.Err())

	rule, err := CompileRule(v.LookupPath(cue.ParsePath("rule.noise")))
	require.NoError(t, err)

	assert.Equal(t, "noise", rule.ID)
	assert.Empty(t, rule.Cause)
	assert.Empty(t, rule.Recommendation)
}

func TestCompileRuleMissingSymptoms(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`rule: r: { diagnosis: "X" }`)
	require.NoError(t, v.Err())

	_, err := CompileRule(v.LookupPath(cue.ParsePath("rule.r")))
	require.Error(t, err)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "symptoms", compileErr.Field)
}

func TestCompileRuleSymptomsNotList(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`rule: r: { symptoms: "lento", diagnosis: "X" }`)
	require.NoError(t, v.Err())

	_, err := CompileRule(v.LookupPath(cue.ParsePath("rule.r")))
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "symptoms", compileErr.Field)
	assert.Contains(t, compileErr.Message, "list of strings")
}

func TestCompileRuleNonStringSymptom(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`rule: r: { symptoms: ["lento", 3], diagnosis: "X" }`)
	require.NoError(t, v.Err())

	_, err := CompileRule(v.LookupPath(cue.ParsePath("rule.r")))
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "symptoms", compileErr.Field)
}

func TestCompileRuleMissingDiagnosis(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`rule: r: { symptoms: ["lento"] }`)
	require.NoError(t, v.Err())

	_, err := CompileRule(v.LookupPath(cue.ParsePath("rule.r")))
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "diagnosis", compileErr.Field)
}

func TestCompileRuleEmptySymptomsCompiles(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`rule: r: { symptoms: [], diagnosis: "X" }`)
	require.NoError(t, v.Err())

	rule, err := CompileRule(v.LookupPath(cue.ParsePath("rule.r")))
	require.NoError(t, err)
	assert.Empty(t, rule.Symptoms)

	errs := Validate([]ir.Rule{*rule})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrRuleEmptyConditions, errs[0].Code)
}

func TestCompileSource_PreservesDeclarationOrder(t *testing.T) {
	rs, err := CompileSource("rules.cue", twoRules)
	require.NoError(t, err)

	require.Len(t, rs.Rules, 2)
	assert.Equal(t, "overheat-reboot", rs.Rules[0].ID)
	assert.Equal(t, "noise", rs.Rules[1].ID)
	assert.Nil(t, rs.Fallback)
	assert.Equal(t, 1, rs.FileCount)
}

func TestCompileSource_Fallback(t *testing.T) {
	rs, err := CompileSource("rules.cue", twoRules+`
fallback: {
	diagnosis:      "Sem diagnóstico"
	cause:          "nenhuma regra"
	recommendation: "procure um técnico"
}
`)
	require.NoError(t, err)
	require.NotNil(t, rs.Fallback)
	assert.Equal(t, ir.DiagnosisResult{
		Diagnosis:      "Sem diagnóstico",
		Cause:          "nenhuma regra",
		Recommendation: "procure um técnico",
	}, *rs.Fallback)
}

func TestCompileSource_NoRules(t *testing.T) {
	_, err := CompileSource("rules.cue", `fallback: { diagnosis: "x" }`)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeGeneric, loadErr.Code)
}

func TestCompileSource_SyntaxError(t *testing.T) {
	_, err := CompileSource("broken.cue", `rule: {`)
	require.Error(t, err)
}

func TestCompileSource_RuleErrorNamesRule(t *testing.T) {
	_, err := CompileSource("rules.cue", `rule: broken: { diagnosis: "X" }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "broken"`)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.cue"), []byte(twoRules), 0644))

	rs, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, rs.FileCount)
	require.Len(t, rs.Rules, 2)
	assert.Equal(t, "overheat-reboot", rs.Rules[0].ID)
}

func TestLoadDir_WithPackageClause(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.cue"), []byte("package rules\n"+twoRules), 0644))

	rs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, rs.Rules, 2)
}

func TestLoadDir_UnifiesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_rules.cue"), []byte(twoRules), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_fallback.cue"),
		[]byte(`fallback: { diagnosis: "Sem diagnóstico" }`+"\n"), 0644))

	rs, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.FileCount)
	require.Len(t, rs.Rules, 2)
	require.NotNil(t, rs.Fallback)
	assert.Equal(t, "Sem diagnóstico", rs.Fallback.Diagnosis)
}

func TestLoadDir_RelativePath(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(parent, "rules"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "rules", "rules.cue"), []byte(twoRules), 0644))
	t.Chdir(parent)

	rs, err := LoadDir("rules")
	require.NoError(t, err)
	require.Len(t, rs.Rules, 2)
}

func TestFindCUEFiles_TopLevelOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cue"), []byte(twoRules), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte(twoRules), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old", "c.cue"), []byte(twoRules), 0644))

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.cue"), filepath.Join(dir, "b.cue")}, files)
}

func TestLoadDir_Errors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	})

	t.Run("not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "rules.cue")
		require.NoError(t, os.WriteFile(file, []byte(twoRules), 0644))
		_, err := LoadDir(file)
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	})

	t.Run("no cue files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# rules"), 0644))
		_, err := LoadDir(dir)
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
	})
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "diagnosis", Message: "diagnosis is required"}
	assert.Equal(t, "diagnosis: diagnosis is required", err.Error())
}
