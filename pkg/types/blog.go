package types

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Blog status values reported by the backend.
const (
	BlogStatusPublished = "published"
	BlogStatusTrashed   = "trashed"
)

// BlogRecord is the client's read-only copy of a blog owned by the backend.
type BlogRecord struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Synopsis       string    `json:"synopsis"`
	Content        string    `json:"content"`
	ImageReference string    `json:"featuredImageUrl,omitempty"`
	Status         string    `json:"status,omitempty"`
	IsDeleted      bool      `json:"isDeleted,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// blogWire mirrors every spelling the backend has used for a blog.
type blogWire struct {
	ID               string `json:"id"`
	MongoID          string `json:"_id"`
	Title            string `json:"title"`
	Synopsis         string `json:"synopsis"`
	Content          string `json:"content"`
	FeaturedImageURL string `json:"featuredImageUrl"`
	FeatureImageURL  string `json:"featureImageUrl"`
	Status           string `json:"status"`
	IsDeleted        bool   `json:"isDeleted"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// UnmarshalJSON accepts both `id` and `_id`, both image field spellings, and
// timestamps the backend formats loosely. Unparseable timestamps stay zero.
func (b *BlogRecord) UnmarshalJSON(data []byte) error {
	var w blogWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = BlogRecord{
		ID:             firstNonEmpty(w.ID, w.MongoID),
		Title:          w.Title,
		Synopsis:       w.Synopsis,
		Content:        w.Content,
		ImageReference: firstNonEmpty(w.FeaturedImageURL, w.FeatureImageURL),
		Status:         w.Status,
		IsDeleted:      w.IsDeleted,
		CreatedAt:      parseTimestamp(w.CreatedAt),
		UpdatedAt:      parseTimestamp(w.UpdatedAt),
	}
	return nil
}

// Trashed reports whether the backend has soft-deleted the blog.
func (b BlogRecord) Trashed() bool {
	return b.IsDeleted || strings.EqualFold(b.Status, BlogStatusTrashed)
}

// Input returns the editable fields of the record, used as the starting
// point for a full-field update.
func (b BlogRecord) Input() BlogInput {
	return BlogInput{
		Title:          b.Title,
		Synopsis:       b.Synopsis,
		Content:        b.Content,
		ImageReference: b.ImageReference,
	}
}

// BlogInput is the body of a create or full-field update request.
type BlogInput struct {
	Title          string `json:"title"`
	Synopsis       string `json:"synopsis"`
	Content        string `json:"content"`
	ImageReference string `json:"featuredImageUrl"`
}

// Blog form validation errors.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrSynopsisRequired = errors.New("synopsis is required")
	ErrContentRequired  = errors.New("content is required")
)

// Validate checks the required text fields. Every missing field is reported.
func (in BlogInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, ErrTitleRequired)
	}
	if strings.TrimSpace(in.Synopsis) == "" {
		errs = append(errs, ErrSynopsisRequired)
	}
	if strings.TrimSpace(in.Content) == "" {
		errs = append(errs, ErrContentRequired)
	}
	return errors.Join(errs...)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
