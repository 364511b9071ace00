package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// MaxTagsPerNote is enforced by the server; requests are checked
// client-side as well so a bad payload never leaves the machine.
const MaxTagsPerNote = 3

// TagList normalizes the tag encodings the API has used over time: a
// JSON array of strings, a single comma-joined string, or array
// elements that are themselves comma-joined ("Work, Personal").
// Parsing happens once at the boundary; the rest of the code only ever
// sees trimmed, non-empty tags with their original casing.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		fields = []string{joined}
	}
	*t = normalizeTags(fields)
	return nil
}

func normalizeTags(fields []string) TagList {
	tags := TagList{}
	for _, field := range fields {
		for _, tag := range strings.Split(field, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			tags = append(tags, tag)
		}
	}
	return tags
}

type Note struct {
	ID        int64     `json:"note_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      TagList   `json:"tags"`
	Folder    string    `json:"folder"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModifiedAt is the timestamp shown to users: last update when the
// server has one, creation time otherwise.
func (n *Note) ModifiedAt() time.Time {
	if n.UpdatedAt.IsZero() {
		return n.CreatedAt
	}
	return n.UpdatedAt
}

type CreateNoteRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content"`
	Tags     TagList `json:"tags,omitempty" validate:"max=3"`
	Folder   string  `json:"folder,omitempty"`
	IsPinned bool    `json:"is_pinned"`
}

// UpdateNoteRequest replaces the full note; the API has no partial
// patch, an update always sends every field.
type UpdateNoteRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content"`
	Tags     TagList `json:"tags,omitempty" validate:"max=3"`
	Folder   string  `json:"folder,omitempty"`
	IsPinned bool    `json:"is_pinned"`
}
