package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/hwdiag/internal/compiler"
	"github.com/roach88/hwdiag/internal/engine"
)

// Error code constants - unified across all CLI commands.
// E001-E006 are shared with the compiler's load errors.
const (
	ErrCodeGeneric       = compiler.ErrCodeGeneric     // Generic/unknown error
	ErrCodeNotFound      = compiler.ErrCodeNotFound    // Path or record not found
	ErrCodeBuildFailed   = compiler.ErrCodeBuildFailed // CUE build failed
	ErrCodeStoreFailed   = "E007"                      // Log store error
	ErrCodeNotConfigured = "E008"                      // Required setting missing
	ErrCodeTestFailed    = "E009"                      // One or more scenarios failed
	ErrCodeInvalidRules  = "E100"                      // Rule table failed validation
)

// RuleSource describes where the active rule table came from.
type RuleSource struct {
	Dir       string `json:"dir,omitempty"` // empty for the built-in table
	FileCount int    `json:"file_count,omitempty"`
	RuleCount int    `json:"rule_count"`
	RulesHash string `json:"rules_hash"`
}

// loadEngine builds the engine from dir, or the built-in table when dir is
// empty. Validation runs before construction so every table problem is
// reported with its E1xx code, not only the first.
func loadEngine(dir string) (*engine.Engine, RuleSource, []compiler.ValidationError, error) {
	if dir == "" {
		eng := engine.Default()
		return eng, sourceOf(eng, "", 0), nil, nil
	}

	rs, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, RuleSource{}, nil, err
	}

	verrs := compiler.Validate(rs.Rules)
	var opts []engine.Option
	if rs.Fallback != nil {
		verrs = append(verrs, compiler.ValidateFallback(*rs.Fallback)...)
		opts = append(opts, engine.WithFallback(*rs.Fallback))
	}
	if len(verrs) > 0 {
		return nil, RuleSource{Dir: dir, FileCount: rs.FileCount, RuleCount: len(rs.Rules)}, verrs, nil
	}

	eng, err := engine.New(rs.Rules, opts...)
	if err != nil {
		return nil, RuleSource{}, nil, err
	}
	return eng, sourceOf(eng, dir, rs.FileCount), nil, nil
}

// mustLoadEngine is loadEngine for commands that only run a valid table.
// Load and validation failures become ExitErrors.
func mustLoadEngine(dir string) (*engine.Engine, RuleSource, error) {
	eng, src, verrs, err := loadEngine(dir)
	if err != nil {
		return nil, RuleSource{}, WrapExitError(ExitCommandError, "failed to load rules", err)
	}
	if len(verrs) > 0 {
		return nil, RuleSource{}, WrapExitError(ExitFailure, fmt.Sprintf("%s: invalid rule table", ErrCodeInvalidRules), verrs[0])
	}
	return eng, src, nil
}

func sourceOf(eng *engine.Engine, dir string, files int) RuleSource {
	return RuleSource{
		Dir:       dir,
		FileCount: files,
		RuleCount: len(eng.Rules()),
		RulesHash: eng.RulesHash(),
	}
}

// loadErrorCode extracts the error code from a load or validation error.
func loadErrorCode(err error) string {
	var loadErr *compiler.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	var verr compiler.ValidationError
	if errors.As(err, &verr) {
		return ErrCodeInvalidRules
	}
	return ErrCodeGeneric
}
