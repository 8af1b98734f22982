package predict

import (
	"fmt"
	"os"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"
)

// Rule adds Then to the bias of every matchup for which When holds.
type Rule struct {
	// Name labels the rule in logs.
	Name string `yaml:"name"`
	// When is a CEL expression over the matchup variables; it must be boolean.
	When string `yaml:"when"`
	Then Bias   `yaml:"then"`

	program cel.Program
}

// Init compiles When against env.
func (r *Rule) Init(env *cel.Env) error {
	ast, iss := env.Compile(r.When)
	if iss.Err() != nil {
		return fmt.Errorf("rule %q: %w", r.Name, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("rule %q: condition must be boolean, got %s", r.Name, ast.OutputType())
	}

	var err error
	r.program, err = env.Program(ast)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}
	return nil
}

// Eval returns Then when the condition holds for activation, nil otherwise.
func (r *Rule) Eval(activation map[string]any) (Bias, error) {
	if r.program == nil {
		return nil, fmt.Errorf("rule %q: not initialized", r.Name)
	}
	result, _, err := r.program.Eval(activation)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	if matched, ok := result.Value().(bool); !ok || !matched {
		return nil, nil
	}
	return r.Then, nil
}

// ParseRules decodes a YAML rule list and compiles every rule.
// An empty document yields no rules.
func ParseRules(content []byte) ([]Rule, error) {
	rules := []Rule{}
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	env, err := NewMatchupEnv()
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if rules[i].Name == "" {
			rules[i].Name = fmt.Sprintf("rule-%d", i+1)
		}
		if err := rules[i].Init(env); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// LoadRules reads rules from file.
func LoadRules(file string) ([]Rule, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ParseRules(content)
}
