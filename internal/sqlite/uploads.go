package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// RecordUpload appends u to the upload history. UploadID and CreatedAt are
// filled in when empty. Returns the stored entry.
func (b *Backend) RecordUpload(u types.Upload) (types.Upload, error) {
	if u.PublicID == "" {
		return types.Upload{}, types.ErrInvalidData
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.handle()
	if err != nil {
		return types.Upload{}, err
	}

	if u.UploadID == "" {
		u.UploadID = generateUUID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err = db.Exec(
		`INSERT INTO uploads (upload_id, public_id, file_name, size_bytes, width, height, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.UploadID, u.PublicID, u.FileName, u.SizeBytes, u.Width, u.Height,
		u.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return types.Upload{}, fmt.Errorf("recording upload %s: %w", u.PublicID, err)
	}
	return u, nil
}

// ListUploads returns the most recent uploads first. limit <= 0 returns all.
func (b *Backend) ListUploads(limit int) ([]types.Upload, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.handle()
	if err != nil {
		return nil, err
	}

	query := `SELECT upload_id, public_id, file_name, size_bytes, width, height, created_at
              FROM uploads ORDER BY created_at DESC, upload_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	var out []types.Upload
	for rows.Next() {
		var u types.Upload
		var created string
		if err := rows.Scan(&u.UploadID, &u.PublicID, &u.FileName, &u.SizeBytes, &u.Width, &u.Height, &created); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		u.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, u)
	}
	return out, rows.Err()
}
