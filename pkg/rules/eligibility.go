// Package rules evaluates prospectus eligibility expressions.
//
// A prospectus may carry an expression such as
//
//	investor.accredited && amount >= 250000 && investor.entity != ""
//
// which must evaluate to true for a letter of intent to be accepted.
package rules

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// InvestorFacts are the investor attributes visible to expressions
type InvestorFacts struct {
	Accredited          bool     `expr:"accredited"`
	AccreditationStatus string   `expr:"accreditationStatus"`
	Entity              string   `expr:"entity"`
	Email               string   `expr:"email"`
	Documents           []string `expr:"documents"`
	ActiveLOIs          int      `expr:"activeLois"`
}

// ProspectusFacts are the prospectus attributes visible to expressions
type ProspectusFacts struct {
	Slug              string  `expr:"slug"`
	AssetClass        string  `expr:"assetClass"`
	Location          string  `expr:"location"`
	TargetRaise       int64   `expr:"targetRaise"`
	MinimumInvestment int64   `expr:"minimumInvestment"`
	ProjectedIRR      float64 `expr:"projectedIrr"`
}

// Env is the evaluation environment for one LOI submission
type Env struct {
	Investor   InvestorFacts   `expr:"investor"`
	Prospectus ProspectusFacts `expr:"prospectus"`
	Amount     int64           `expr:"amount"`
}

// Engine compiles and caches eligibility programs
type Engine struct {
	programCache map[string]*vm.Program
	mu           sync.RWMutex
}

// NewEngine creates a new eligibility engine
func NewEngine() *Engine {
	return &Engine{programCache: make(map[string]*vm.Program)}
}

// Eligible evaluates expression against env. An empty expression admits everyone.
func (e *Engine) Eligible(expression string, env Env) (bool, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return true, nil
	}
	program, err := e.getProgram(expression)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eligibility evaluation failed: %w", err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("eligibility expression must return a boolean, got %T", out)
	}
	return ok, nil
}

// Validate compiles expression without running it
func (e *Engine) Validate(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	_, err := e.getProgram(strings.TrimSpace(expression))
	return err
}

func (e *Engine) getProgram(expression string) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.programCache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if prog, ok := e.programCache[expression]; ok {
		return prog, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("LOWER", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("LOWER requires 1 argument")
			}
			s, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("LOWER argument must be string")
			}
			return strings.ToLower(s), nil
		}),
		expr.Function("EMAIL_DOMAIN", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("EMAIL_DOMAIN requires 1 argument")
			}
			s, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("EMAIL_DOMAIN argument must be string")
			}
			if i := strings.LastIndex(s, "@"); i >= 0 {
				return strings.ToLower(s[i+1:]), nil
			}
			return "", nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid eligibility expression: %w", err)
	}

	e.programCache[expression] = program
	return program, nil
}
