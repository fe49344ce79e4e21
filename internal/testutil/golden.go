package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/hyperpipe/internal/ir"
)

// NewGolden returns a goldie instance reading testdata/golden/*.golden in the
// calling package.
//
// To regenerate golden files, run the package's tests with -update.
func NewGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// AssertPipelineGolden compares a pipeline against testdata/golden/{name}.golden.
//
// The pipeline is stored as its canonical JSON, indented for review. Key order
// is the canonical order, so the golden file changes only when the pipeline
// does.
func AssertPipelineGolden(t *testing.T, name string, p *ir.Pipeline) {
	t.Helper()

	canonical, err := ir.MarshalCanonical(p)
	if err != nil {
		t.Fatalf("marshal pipeline: %v", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, canonical, "", "  "); err != nil {
		t.Fatalf("indent pipeline: %v", err)
	}
	out.WriteByte('\n')

	NewGolden(t).Assert(t, name, out.Bytes())
}
