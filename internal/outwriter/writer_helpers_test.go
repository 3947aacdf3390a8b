package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	assert.Equal(t, "0.68", fmtFloat(0.684))
	assert.Equal(t, "%d", intFmt)

	fmtFloat, _ = createFormatters(4)
	assert.Equal(t, "0.6840", fmtFloat(0.684))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"score": 0.75, "label": "Adequate"}

	err := writeJSON(&buf, data)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Adequate", decoded["label"])
	assert.InDelta(t, 0.75, decoded["score"].(float64), 0.001)
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer

	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "2"})
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"a", "b"}, records[0])
	assert.Equal(t, []string{"1", "2"}, records[1])
}

func TestWriteWithFileStdout(t *testing.T) {
	err := writeWithFile("", func(io.Writer) error { return nil }, "Wrote")
	require.NoError(t, err)
}

func TestWriteWithFileActualFile(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "out.txt")

	err := writeWithFile(outputPath, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}, "Wrote text")
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 20))
	long := strings.Repeat("x", 40)
	got := truncateText(long, 20)
	assert.Len(t, got, 20)
	assert.True(t, strings.HasSuffix(got, "..."))
}
