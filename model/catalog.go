package model

// Simulation identifies one of the two ways a test is executed against a client.
type Simulation string

const (
	// SimulationRLP imports blocks through the client's RLP block import.
	SimulationRLP Simulation = "consume-rlp"
	// SimulationEngine drives blocks through the Engine API.
	SimulationEngine Simulation = "consume-engine"
)

// Simulations returns the fixed execution modes in evaluation order.
func Simulations() []Simulation {
	return []Simulation{SimulationRLP, SimulationEngine}
}

// Label returns the short label used in tables.
func (s Simulation) Label() string {
	switch s {
	case SimulationRLP:
		return "rlp"
	case SimulationEngine:
		return "eng"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known simulations.
func (s Simulation) Valid() bool {
	return s == SimulationRLP || s == SimulationEngine
}

// Status is the outcome of one simulation for one client.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusPending Status = "pending"
)

// TestStatus is the completion state of a test case in the upstream table.
type TestStatus string

const (
	TestStatusCompleted TestStatus = "completed"
	TestStatusPlanned   TestStatus = "planned"
)

// Result holds the status of a single simulation.
type Result struct {
	Simulation Simulation `json:"simulation"`
	Status     Status     `json:"status"`
}

// TestVariant is one parameterization of a test case.
type TestVariant struct {
	// Parameters identify the variant within its test; empty means standalone
	Parameters []string `json:"parameters"`
	// Results per internal client id
	Results map[string][]Result `json:"results"`
}

// Test is a catalog entry synced from the upstream test case table.
type Test struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Setup       string        `json:"setup"`
	Expectation string        `json:"expectation"`
	Status      TestStatus    `json:"status"`
	Variants    []TestVariant `json:"variants"`
}

// TimestampFormat is the ISO-8601 form of TestResults.LastUpdated.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// TestResults is the persisted per-EIP results document.
type TestResults struct {
	Spec        string `json:"spec"`
	LastUpdated string `json:"lastUpdated"`
	Tests       []Test `json:"tests"`
}

// ResultFor returns the client's result for a simulation, if any.
func (v TestVariant) ResultFor(clientID string, sim Simulation) (Result, bool) {
	for _, r := range v.Results[clientID] {
		if r.Simulation == sim {
			return r, true
		}
	}
	return Result{}, false
}

// Clone returns a deep copy of the variant.
func (v TestVariant) Clone() TestVariant {
	out := TestVariant{
		Parameters: append([]string{}, v.Parameters...),
		Results:    make(map[string][]Result, len(v.Results)),
	}
	for client, results := range v.Results {
		out.Results[client] = append([]Result(nil), results...)
	}
	return out
}

// Clone returns a deep copy of the test.
func (t Test) Clone() Test {
	out := t
	out.Variants = make([]TestVariant, len(t.Variants))
	for i, v := range t.Variants {
		out.Variants[i] = v.Clone()
	}
	return out
}

// Clone returns a deep copy of the document.
func (d TestResults) Clone() TestResults {
	out := d
	out.Tests = make([]Test, len(d.Tests))
	for i, t := range d.Tests {
		out.Tests[i] = t.Clone()
	}
	return out
}

// Normalize replaces absent collections with empty ones so that documents
// round-trip without null values.
func (d *TestResults) Normalize() {
	if d.Tests == nil {
		d.Tests = []Test{}
	}
	for i := range d.Tests {
		t := &d.Tests[i]
		if t.Variants == nil {
			t.Variants = []TestVariant{}
		}
		for j := range t.Variants {
			v := &t.Variants[j]
			if v.Parameters == nil {
				v.Parameters = []string{}
			}
			if v.Results == nil {
				v.Results = map[string][]Result{}
			}
		}
	}
}
