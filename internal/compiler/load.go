package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/hwdiag/internal/ir"
)

// Load error codes (E001-E099), shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
)

// RuleSet is a compiled rule table.
type RuleSet struct {
	Rules     []ir.Rule
	Fallback  *ir.DiagnosisResult // nil keeps the engine default
	FileCount int
}

// LoadError represents an error that occurred while loading rule files.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDir loads every .cue file in dir as one CUE instance and compiles the
// rule table. A package clause is optional, but files that declare one must
// agree on the name. Compilation is fail-fast; use Validate on the result for
// a complete report of table-level problems.
func LoadDir(dir string) (*RuleSet, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing rules directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	// Named files form one instance whether or not they declare a package.
	instances := load.Instances(cueFiles, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	rs, err := compileRuleSet(value)
	if err != nil {
		return nil, err
	}
	rs.FileCount = len(cueFiles)
	return rs, nil
}

// CompileSource compiles a single CUE source text. The filename is used
// for error positions only.
func CompileSource(filename, src string) (*RuleSet, error) {
	value := cuecontext.New().CompileString(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	rs, err := compileRuleSet(value)
	if err != nil {
		return nil, err
	}
	rs.FileCount = 1
	return rs, nil
}

// compileRuleSet compiles the "rule" and "fallback" fields of a root value.
func compileRuleSet(value cue.Value) (*RuleSet, error) {
	rs := &RuleSet{}

	rulesVal := value.LookupPath(cue.ParsePath("rule"))
	if rulesVal.Exists() {
		iter, err := rulesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			rule, err := CompileRule(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", iter.Label(), err)
			}
			rs.Rules = append(rs.Rules, *rule)
		}
	}

	fbVal := value.LookupPath(cue.ParsePath("fallback"))
	if fbVal.Exists() {
		fb, err := CompileFallback(fbVal)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		rs.Fallback = fb
	}

	if len(rs.Rules) == 0 {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "no rules found"}
	}

	return rs, nil
}

// FindCUEFiles returns the absolute paths of the .cue files directly inside
// dir, sorted by name. Subdirectories are not searched.
func FindCUEFiles(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(abs, e.Name()))
		}
	}
	return files, nil
}
