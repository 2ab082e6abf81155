package hive

// names.go decodes hive test case names into base test, parameters and client.

import (
	"regexp"
	"sort"
	"strings"

	"github.com/balboard/balboard/model"
)

// Artifact tokens hive embeds in test names to mark the fixture format.
const (
	ArtifactBlockchainTest       = "blockchain_test"
	ArtifactBlockchainTestEngine = "blockchain_test_engine"
)

var testFunctionRe = regexp.MustCompile(`::([^\[]+)(\[([^\]]+)\])?`)

// ClientMap resolves hive client names to internal client ids.
type ClientMap map[string]string

// NewClientMap builds the mapping from a client roster.
func NewClientMap(clients []model.Client) ClientMap {
	m := make(ClientMap, len(clients))
	for _, c := range clients {
		if c.HiveName == "" {
			continue
		}
		m[c.HiveName] = c.ID
	}
	return m
}

// Resolve returns the internal id for a hive client name.
func (m ClientMap) Resolve(hiveName string) (string, bool) {
	id, ok := m[hiveName]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Names returns the hive client names, longest first.
func (m ClientMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// TestInfo is a decoded hive test case name.
type TestInfo struct {
	BaseTest string
	// Parameters is nil for standalone tests
	Parameters []string
	Client     string
}

// Decoder decodes test case names for a fixed set of clients.
type Decoder struct {
	clients ClientMap
	suffix  *regexp.Regexp
}

// NewDecoder compiles the client suffix pattern for clients.
func NewDecoder(clients ClientMap) *Decoder {
	d := &Decoder{clients: clients}

	names := clients.Names()
	if len(names) == 0 {
		return d
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	// The client may close the bracket or follow it.
	d.suffix = regexp.MustCompile(`-(` + strings.Join(quoted, "|") + `)(\])?$`)
	return d
}

// Decode parses a name such as
// tests/amsterdam/eip7928/test_bal.py::test_bal_nonce_changes[fork_Amsterdam-blockchain_test-go-ethereum].
// It returns false when no known client suffix or test function is found.
func (d *Decoder) Decode(name string) (TestInfo, bool) {
	if d.suffix == nil {
		return TestInfo{}, false
	}

	loc := d.suffix.FindStringSubmatchIndex(name)
	if loc == nil {
		return TestInfo{}, false
	}
	hiveClient := name[loc[2]:loc[3]]
	client, ok := d.clients.Resolve(hiveClient)
	if !ok {
		return TestInfo{}, false
	}

	// Drop "-<client>" and keep a closing bracket if the client was inside it
	stripped := name[:loc[0]]
	if loc[4] >= 0 {
		stripped += "]"
	}

	match := testFunctionRe.FindStringSubmatch(stripped)
	if match == nil {
		return TestInfo{}, false
	}

	info := TestInfo{
		BaseTest: match[1],
		Client:   client,
	}
	if paramString := match[3]; paramString != "" {
		var params []string
		for _, part := range strings.Split(paramString, "-") {
			if part == ArtifactBlockchainTest || part == ArtifactBlockchainTestEngine {
				continue
			}
			params = append(params, part)
		}
		if len(params) > 0 {
			info.Parameters = params
		}
	}

	return info, true
}

// SimulationFromName derives the simulation from the raw test case name.
func SimulationFromName(name string) model.Simulation {
	if strings.Contains(name, ArtifactBlockchainTestEngine) {
		return model.SimulationEngine
	}
	return model.SimulationRLP
}
