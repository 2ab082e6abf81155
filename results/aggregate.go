package results

// aggregate.go groups decoded hive test cases by base test and variant.

import (
	"encoding/json"

	"github.com/balboard/balboard/hive"
	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
)

// StandaloneKey is the variant key of tests without parameters.
const StandaloneKey = "standalone"

// Decoder turns a raw test case name into its parts.
type Decoder interface {
	Decode(name string) (hive.TestInfo, bool)
}

// VariantKey returns the grouping key for a parameter list.
func VariantKey(params []string) string {
	if len(params) == 0 {
		return StandaloneKey
	}
	data, err := json.Marshal(params)
	if err != nil {
		// []string always marshals
		panic(err)
	}
	return string(data)
}

// VariantGroup collects the outcomes observed for one variant of a test.
type VariantGroup struct {
	Key string
	// Parameters is nil for standalone variants
	Parameters []string
	// Clients in first-seen order
	Clients []string
	// Results maps client -> simulation -> passed
	Results map[string]map[model.Simulation]bool
}

// TestGroup collects the variants observed for one base test.
type TestGroup struct {
	BaseTest string
	Variants []*VariantGroup
	index    map[string]*VariantGroup
}

// Variant returns the group for key, if any.
func (g *TestGroup) Variant(key string) (*VariantGroup, bool) {
	v, ok := g.index[key]
	return v, ok
}

// Grouped is the aggregator output, ordered by first observation.
type Grouped struct {
	Tests []*TestGroup
	index map[string]*TestGroup
	// Skipped counts test cases whose names could not be decoded
	Skipped int
}

// NewGrouped returns an empty grouping.
func NewGrouped() *Grouped {
	return &Grouped{index: make(map[string]*TestGroup)}
}

// Test returns the group for a base test, if any.
func (g *Grouped) Test(baseTest string) (*TestGroup, bool) {
	t, ok := g.index[baseTest]
	return t, ok
}

// Add records one outcome. A repeated (test, variant, client, simulation)
// overwrites the earlier outcome.
func (g *Grouped) Add(info hive.TestInfo, sim model.Simulation, passed bool) {
	test, ok := g.index[info.BaseTest]
	if !ok {
		test = &TestGroup{
			BaseTest: info.BaseTest,
			index:    make(map[string]*VariantGroup),
		}
		g.index[info.BaseTest] = test
		g.Tests = append(g.Tests, test)
	}

	key := VariantKey(info.Parameters)
	variant, ok := test.index[key]
	if !ok {
		variant = &VariantGroup{
			Key:        key,
			Parameters: info.Parameters,
			Results:    make(map[string]map[model.Simulation]bool),
		}
		test.index[key] = variant
		test.Variants = append(test.Variants, variant)
	}

	sims, ok := variant.Results[info.Client]
	if !ok {
		sims = make(map[model.Simulation]bool)
		variant.Results[info.Client] = sims
		variant.Clients = append(variant.Clients, info.Client)
	}
	sims[sim] = passed
}

// Aggregate decodes every test case and groups the outcomes. Cases whose
// names cannot be decoded are logged and skipped.
func Aggregate(logger zerolog.Logger, decoder Decoder, cases []hive.TestCase) *Grouped {
	grouped := NewGrouped()

	logger.Info().Int("test_cases", len(cases)).Msg("Processing test cases")

	for _, tc := range cases {
		info, ok := decoder.Decode(tc.Name)
		if !ok {
			logger.Warn().Str("name", tc.Name).Msg("Could not parse test info")
			grouped.Skipped++
			continue
		}

		// The name encodes the simulation outside the bracket as well
		sim := hive.SimulationFromName(tc.Name)
		grouped.Add(info, sim, tc.Pass)

		logger.Debug().
			Str("test", info.BaseTest).
			Str("variant", VariantKey(info.Parameters)).
			Str("client", info.Client).
			Str("simulation", string(sim)).
			Bool("pass", tc.Pass).
			Msg("Recorded result")
	}

	logger.Info().Int("base_tests", len(grouped.Tests)).Int("skipped", grouped.Skipped).Msg("Grouped test results")
	return grouped
}
