// JSONL helpers with atomic persistence, used to export and import the
// upload history.

package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ExportUploads writes the whole upload history to path as JSONL, oldest
// first. Returns the number of records written.
func (b *Backend) ExportUploads(path string) (int, error) {
	uploads, err := b.ListUploads(0)
	if err != nil {
		return 0, err
	}
	records := make([]json.RawMessage, 0, len(uploads))
	for i := len(uploads) - 1; i >= 0; i-- {
		rec, err := json.Marshal(uploads[i])
		if err != nil {
			return 0, fmt.Errorf("marshal upload %s: %w", uploads[i].UploadID, err)
		}
		records = append(records, rec)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportUploads appends the uploads in a JSONL file to the history. Lines
// that are not uploads, or whose upload_id already exists, are skipped.
// Returns the number of records imported.
func (b *Backend) ImportUploads(path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	existing, err := b.ListUploads(0)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, u := range existing {
		seen[u.UploadID] = true
	}

	imported := 0
	for _, rec := range records {
		var u types.Upload
		if err := json.Unmarshal(rec, &u); err != nil || u.PublicID == "" {
			continue
		}
		if u.UploadID != "" && seen[u.UploadID] {
			continue
		}
		stored, err := b.RecordUpload(u)
		if err != nil {
			return imported, err
		}
		seen[stored.UploadID] = true
		imported++
	}
	return imported, nil
}
