package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidkimai/recursive-distill/schema"
)

func testCatalog() *schema.ResidueCatalog {
	catalog := &schema.ResidueCatalog{Instances: []schema.ResidueInstance{
		{
			ID:             "0f8fad5b-d9cb-469f-a165-70867728950e",
			Classification: schema.LinguisticUncertainty,
			Description:    "The approach may scale to larger corpora, though this remains untested.",
			Section:        "Discussion",
			FailureMode:    schema.FailureModeFor(schema.LinguisticUncertainty),
			RecursiveDepth: schema.SurfaceDepth,
			Valence:        schema.NeutralValence,
			Detected:       time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
			Reporter:       schema.SystemReporter,
			Source:         "docs/findings.md",
			Status:         schema.ActiveResidue,
		},
		{
			ID:             "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			Classification: schema.ScopeBoundary,
			Description:    "Out of scope: multilingual corpora.",
			Section:        "Scope",
			FailureMode:    schema.FailureModeFor(schema.ScopeBoundary),
			RecursiveDepth: schema.IntermediateDepth,
			Valence:        schema.NeutralValence,
			Detected:       time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
			Reporter:       schema.AuthorReporter,
			Source:         "docs/scope.md",
			Status:         schema.ResolvedResidue,
		},
	}}
	catalog.Recount()
	return catalog
}

func TestWriteResidueTable(t *testing.T) {
	var buf bytes.Buffer

	err := writeResidueTable(testCatalog(), testConfig(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "0f8fad5b") // short id
	assert.NotContains(t, out, "0f8fad5b-d9cb")
	assert.Contains(t, out, string(schema.LinguisticUncertainty))
	assert.Contains(t, out, "2 instance(s): 1 active, 0 pending, 1 resolved")
	assert.Contains(t, out, "Dominant classification:")
}

func TestWriteResidueTableEmpty(t *testing.T) {
	var buf bytes.Buffer

	err := writeResidueTable(&schema.ResidueCatalog{}, testConfig(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Residue catalog is empty.")
}

func TestWriteResidueRows(t *testing.T) {
	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	require.NoError(t, writeResidueRows(csvWriter, testCatalog()))
	csvWriter.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", records[0][0])
	assert.Equal(t, string(schema.LinguisticUncertainty), records[0][1])
	assert.Equal(t, string(schema.ActiveResidue), records[0][2])
	assert.Equal(t, "docs/findings.md", records[0][7])
}
