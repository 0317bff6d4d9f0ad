package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
	"github.com/tcroft/mcdm/pkg/core/methods"
)

// ProblemCriterion is one criterion entry in a problem file
type ProblemCriterion struct {
	ID          string  `yaml:"id" validate:"required"`
	Name        string  `yaml:"name,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Direction   string  `yaml:"direction,omitempty" validate:"omitempty,oneof=maximize minimize"`
	Weight      float64 `yaml:"weight" validate:"gte=0"`
	Unit        string  `yaml:"unit,omitempty"`
}

// ProblemAlternative is one alternative entry in a problem file
type ProblemAlternative struct {
	ID          string             `yaml:"id" validate:"required"`
	Name        string             `yaml:"name,omitempty"`
	Description string             `yaml:"description,omitempty"`
	Metadata    map[string]float64 `yaml:"metadata,omitempty"`
}

// Problem represents a decision problem loaded from a YAML file: the
// decision matrix plus the method to run and its parameters
type Problem struct {
	Name         string               `yaml:"name" validate:"required"`
	Method       string               `yaml:"method" validate:"required"`
	Parameters   map[string]any       `yaml:"parameters,omitempty"`
	Criteria     []ProblemCriterion   `yaml:"criteria" validate:"required,min=1,dive"`
	Alternatives []ProblemAlternative `yaml:"alternatives" validate:"required,min=1,dive"`
	Values       [][]float64          `yaml:"values" validate:"required,min=1"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadProblem loads and validates a problem definition from a YAML file
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file: %w", err)
	}

	var problem Problem
	if err := yaml.Unmarshal(data, &problem); err != nil {
		return nil, fmt.Errorf("failed to parse problem file: %w", err)
	}

	if err := Validate(&problem); err != nil {
		return nil, err
	}

	return &problem, nil
}

// Validate validates the problem struct and checks the value grid shape
func Validate(problem *Problem) error {
	if err := validate.Struct(problem); err != nil {
		return fmt.Errorf("problem validation failed: %w", err)
	}

	if len(problem.Values) != len(problem.Alternatives) {
		return fmt.Errorf("values has %d rows but there are %d alternatives",
			len(problem.Values), len(problem.Alternatives))
	}
	for i, row := range problem.Values {
		if len(row) != len(problem.Criteria) {
			return fmt.Errorf("values row %d has %d entries but there are %d criteria",
				i, len(row), len(problem.Criteria))
		}
	}

	return nil
}

// Matrix converts the problem into a decision matrix
func (p *Problem) Matrix() (*mcdm.DecisionMatrix, error) {
	criteria := make([]mcdm.Criterion, len(p.Criteria))
	for i, c := range p.Criteria {
		direction, err := mcdm.ParseDirection(c.Direction)
		if err != nil {
			return nil, fmt.Errorf("criterion %s: %w", c.ID, err)
		}
		name := c.Name
		if name == "" {
			name = c.ID
		}
		criteria[i] = mcdm.Criterion{
			ID:          c.ID,
			Name:        name,
			Description: c.Description,
			Direction:   direction,
			Weight:      c.Weight,
			Unit:        c.Unit,
		}
	}

	alternatives := make([]mcdm.Alternative, len(p.Alternatives))
	for i, a := range p.Alternatives {
		name := a.Name
		if name == "" {
			name = a.ID
		}
		alternatives[i] = mcdm.Alternative{
			ID:          a.ID,
			Name:        name,
			Description: a.Description,
			Metadata:    a.Metadata,
		}
	}

	return mcdm.NewDecisionMatrix(p.Name, alternatives, criteria, p.Values)
}

// MethodParameters returns the method parameters as an execution parameter map
func (p *Problem) MethodParameters() methods.Params {
	if len(p.Parameters) == 0 {
		return nil
	}
	params := make(methods.Params, len(p.Parameters))
	for k, v := range p.Parameters {
		params[k] = v
	}
	return params
}
