package harness

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Scenario is one declarative test: stores, the steps applied to them, and
// the assertions checked afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Stores are created in order. Includes must name earlier stores.
	Stores []StoreDecl `yaml:"stores"`

	// Steps run in order after every store exists.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// StoreDecl declares a named store.
type StoreDecl struct {
	Name     string   `yaml:"name"`
	Includes []string `yaml:"includes,omitempty"`
}

// Step is exactly one of Insert or Include.
type Step struct {
	Insert  *InsertStep  `yaml:"insert,omitempty"`
	Include *IncludeStep `yaml:"include,omitempty"`
}

// InsertStep applies a delta to one fact.
type InsertStep struct {
	Store string `yaml:"store"`
	E     any    `yaml:"e"`
	A     any    `yaml:"a"`
	V     any    `yaml:"v"`

	// M is the delta. Default: 1.
	M *int `yaml:"m,omitempty"`

	// Provenance is a uuid tag. Default: the next id from the scenario's
	// sequence.
	Provenance string `yaml:"provenance,omitempty"`
}

// IncludeStep adds an include edge after construction.
type IncludeStep struct {
	Store string `yaml:"store"`
	Other string `yaml:"other"`
}

// Assertion validates final state. Which fields apply depends on Type.
type Assertion struct {
	// Type specifies the assertion type:
	// - "count_of": e, a, v, count
	// - "size": count
	// - "live": count
	// - "lookup": e, a, then value or found: false
	// - "scan_count": query, count
	// - "scan_contains": query, e, a, v, optional count
	Type  string `yaml:"type"`
	Store string `yaml:"store"`

	E any `yaml:"e,omitempty"`
	A any `yaml:"a,omitempty"`
	V any `yaml:"v,omitempty"`

	// Query is a triple pattern in query.Parse syntax.
	Query string `yaml:"query,omitempty"`

	Count *int  `yaml:"count,omitempty"`
	Value any   `yaml:"value,omitempty"`
	Found *bool `yaml:"found,omitempty"`
}

// Assertion type constants.
const (
	AssertCountOf      = "count_of"
	AssertSize         = "size"
	AssertLive         = "live"
	AssertLookup       = "lookup"
	AssertScanCount    = "scan_count"
	AssertScanContains = "scan_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, violates the
// schema, contains unknown fields, or references undeclared stores.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario is LoadScenario for in-memory YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Strict decode catches anything the schema let through
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateSchema unifies the raw document with #Scenario from schema.cue.
func validateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("empty scenario")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// validateScenario checks cross references the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Stores) == 0 {
		return fmt.Errorf("stores list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	declared := make(map[string]bool)
	for i, st := range s.Stores {
		if st.Name == "" {
			return fmt.Errorf("stores[%d]: name is required", i)
		}
		if declared[st.Name] {
			return fmt.Errorf("stores[%d]: duplicate store %q", i, st.Name)
		}
		for _, inc := range st.Includes {
			if !declared[inc] {
				return fmt.Errorf("stores[%d]: include %q must be declared earlier", i, inc)
			}
		}
		declared[st.Name] = true
	}

	for i, step := range s.Steps {
		switch {
		case step.Insert != nil && step.Include != nil:
			return fmt.Errorf("steps[%d]: exactly one of insert or include is allowed", i)
		case step.Insert != nil:
			if !declared[step.Insert.Store] {
				return fmt.Errorf("steps[%d]: unknown store %q", i, step.Insert.Store)
			}
		case step.Include != nil:
			if !declared[step.Include.Store] {
				return fmt.Errorf("steps[%d]: unknown store %q", i, step.Include.Store)
			}
			if !declared[step.Include.Other] {
				return fmt.Errorf("steps[%d]: unknown store %q", i, step.Include.Other)
			}
		default:
			return fmt.Errorf("steps[%d]: insert or include is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], declared); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, declared map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if !declared[a.Store] {
		return fmt.Errorf("assertions[%d]: unknown store %q", index, a.Store)
	}

	needTriple := func() error {
		if a.E == nil || a.A == nil || a.V == nil {
			return fmt.Errorf("assertions[%d]: e, a and v are required for %s", index, a.Type)
		}
		return nil
	}
	needCount := func() error {
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		return nil
	}
	needQuery := func() error {
		if a.Query == "" {
			return fmt.Errorf("assertions[%d]: query is required for %s", index, a.Type)
		}
		return nil
	}

	switch a.Type {
	case AssertCountOf:
		if err := needTriple(); err != nil {
			return err
		}
		return needCount()
	case AssertSize, AssertLive:
		return needCount()
	case AssertLookup:
		if a.E == nil || a.A == nil {
			return fmt.Errorf("assertions[%d]: e and a are required for lookup", index)
		}
		notFound := a.Found != nil && !*a.Found
		if notFound == (a.Value != nil) {
			return fmt.Errorf("assertions[%d]: lookup needs exactly one of value or found: false", index)
		}
	case AssertScanCount:
		if err := needQuery(); err != nil {
			return err
		}
		return needCount()
	case AssertScanContains:
		if err := needQuery(); err != nil {
			return err
		}
		return needTriple()
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
