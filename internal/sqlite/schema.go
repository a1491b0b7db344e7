package sqlite

// Schema DDL, applied in order on every Attach.
const (
	createKV = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createUploads = `CREATE TABLE IF NOT EXISTS uploads (
    upload_id TEXT PRIMARY KEY,
    public_id TEXT NOT NULL,
    file_name TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createUploadsIndex = `CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);`
)

var schema = []string{
	createKV,
	createUploads,
	createUploadsIndex,
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
