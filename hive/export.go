package hive

// export.go locates and parses the JSON results export hive writes per run.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoResultsFile is returned when a results directory holds no export.
var ErrNoResultsFile = errors.New("no hive results file found")

// hive writes its own bookkeeping next to the export under this name.
const defaultResultsName = "hive.json"

// TestCase is a single entry of the export's testCases map.
type TestCase struct {
	Key  string
	Name string
	Pass bool
}

// Export is the subset of a hive export the pipeline consumes.
type Export struct {
	Name           string
	Description    string
	ClientVersions map[string]string
	HiveCommit     string
	TestCases      []TestCase
}

// FindResultsFile returns the export in dir: a .json file with a hyphen in
// its name that is not hive's own hive.json.
func FindResultsFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w in %s: %w", ErrNoResultsFile, dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(name, ".json") && strings.Contains(name, "-") && name != defaultResultsName {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoResultsFile, dir)
}

// LoadExport reads and parses the export at path.
func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hive results: %w", err)
	}
	export, err := ParseExport(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return export, nil
}

// ParseExport parses an export document. Unknown fields are ignored and
// missing ones default to zero values; only malformed JSON is an error.
func ParseExport(data []byte) (*Export, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("export is not a JSON object")
	}

	export := &Export{
		Name:           root.Get("name").String(),
		Description:    root.Get("description").String(),
		HiveCommit:     root.Get("runMetadata.hiveVersion.commit").String(),
		ClientVersions: make(map[string]string),
	}

	root.Get("clientVersions").ForEach(func(key, value gjson.Result) bool {
		export.ClientVersions[key.String()] = value.String()
		return true
	})

	root.Get("testCases").ForEach(func(key, value gjson.Result) bool {
		export.TestCases = append(export.TestCases, TestCase{
			Key:  key.String(),
			Name: value.Get("name").String(),
			Pass: value.Get("summaryResult.pass").Bool(),
		})
		return true
	})

	return export, nil
}
