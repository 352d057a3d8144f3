package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TranscriptSnapshot captures the full report transcript for a scenario
// execution, serialized deterministically for golden comparison.
type TranscriptSnapshot struct {
	ScenarioName string   `json:"scenario_name"`
	Transcript   []string `json:"transcript"`
}

// RunWithGolden executes a scenario and compares the report transcript
// against a golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files serve as the source of truth for expected transcript
// output. Transcripts contain no run identifiers or timestamps, so a
// scenario with deterministic steps compares byte for byte.
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the transcript doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's transcript against a golden
// file. Useful when a scenario has already run and only the comparison
// is wanted.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TranscriptSnapshot{
		ScenarioName: scenarioName,
		Transcript:   result.Transcript,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
