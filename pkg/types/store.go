package types

import (
	"errors"
	"time"
)

// Upload is one entry of the local media upload history.
type Upload struct {
	UploadID  string    `json:"upload_id"`
	PublicID  string    `json:"public_id"`
	FileName  string    `json:"file_name"`
	SizeBytes int64     `json:"size_bytes"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// Local store lifecycle and lookup errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrNotFound        = errors.New("entry not found")
	ErrInvalidKey      = errors.New("key must not be empty")
	ErrInvalidData     = errors.New("invalid entry data")
)

// Store is the local persistence used by blogctl: a string key-value table
// for session state and an append-only upload history.
//
// Attach opens the store in dataDir; Detach releases it and is idempotent.
// Every other method returns ErrStoreDetached until Attach succeeds.
type Store interface {
	Attach(dataDir string) error
	Detach() error

	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	SetMany(pairs map[string]string) error
	DeleteMany(keys ...string) error

	RecordUpload(u Upload) (Upload, error)
	ListUploads(limit int) ([]Upload, error)
	ExportUploads(path string) (int, error)
	ImportUploads(path string) (int, error)
}
