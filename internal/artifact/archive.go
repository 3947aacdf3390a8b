package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// appendArchive merges rotated-out snapshots into the compressed
// history archive. The archive holds one zstd-compressed JSON history
// document, rewritten as a whole on each rotation.
func (s *Store) appendArchive(evicted []schema.CoherenceReport) error {
	archive, err := s.LoadArchive()
	if err != nil {
		return err
	}
	archive.Snapshots = append(archive.Snapshots, evicted...)
	archive.SortAscending()

	data, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", HistoryArchiveFile, err)
	}

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("compress %s: %w", HistoryArchiveFile, err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return fmt.Errorf("compress %s: %w", HistoryArchiveFile, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress %s: %w", HistoryArchiveFile, err)
	}
	return s.writeBytes(HistoryArchiveFile, buf.Bytes())
}

// LoadArchive returns the archived snapshot history, empty when the
// archive is missing or no longer decompresses.
func (s *Store) LoadArchive() (schema.CoherenceHistory, error) {
	var history schema.CoherenceHistory

	data, err := os.ReadFile(s.Path(HistoryArchiveFile))
	if os.IsNotExist(err) {
		return history, nil
	}
	if err != nil {
		return history, fmt.Errorf("read %s: %w", HistoryArchiveFile, err)
	}

	zr, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		contract.LogWarn(fmt.Sprintf("reinitializing malformed artifact %s", HistoryArchiveFile), err)
		return schema.CoherenceHistory{}, nil
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("reinitializing malformed artifact %s", HistoryArchiveFile), err)
		return schema.CoherenceHistory{}, nil
	}
	if err := json.Unmarshal(raw, &history); err != nil {
		contract.LogWarn(fmt.Sprintf("reinitializing malformed artifact %s", HistoryArchiveFile), err)
		return schema.CoherenceHistory{}, nil
	}
	return history, nil
}
