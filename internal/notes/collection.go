// Package notes holds the client's cache of the user's note list. The
// server is always the source of truth: every mutation refetches the
// full list and replaces the cache wholesale rather than patching it.
package notes

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"noteapp-client/internal/api"
	"noteapp-client/internal/domain"

	"github.com/go-playground/validator/v10"
)

// API is the slice of the HTTP client the collection needs.
type API interface {
	ListNotes(ctx context.Context) ([]domain.Note, error)
	GetNote(ctx context.Context, id int64) (*domain.Note, error)
	CreateNote(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, error)
	UpdateNote(ctx context.Context, id int64, req *domain.UpdateNoteRequest) (*domain.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

type Collection struct {
	api      API
	validate *validator.Validate

	mu    sync.Mutex
	notes []domain.Note
	epoch uint64
}

func NewCollection(apiClient API) *Collection {
	return &Collection{
		api:      apiClient,
		validate: validator.New(),
	}
}

// Refresh refetches the full list. Refreshes are stamped with a
// monotonic epoch: when two overlap, the response belonging to the
// older request is discarded so it cannot overwrite fresher state.
func (c *Collection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.epoch++
	seq := c.epoch
	c.mu.Unlock()

	fetched, err := c.api.ListNotes(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.epoch {
		log.Printf("discarding stale note list (epoch %d < %d)", seq, c.epoch)
		return nil
	}
	c.notes = fetched
	return nil
}

// Notes returns a copy of the cached list in server order.
func (c *Collection) Notes() []domain.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Note(nil), c.notes...)
}

// Get fetches a single note directly; the detail view always reads
// fresh from the server.
func (c *Collection) Get(ctx context.Context, id int64) (*domain.Note, error) {
	return c.api.GetNote(ctx, id)
}

func (c *Collection) Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, requestError(err)
	}
	note, err := c.api.CreateNote(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.Refresh(ctx); err != nil {
		return note, err
	}
	return note, nil
}

func (c *Collection) Update(ctx context.Context, id int64, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, requestError(err)
	}
	note, err := c.api.UpdateNote(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := c.Refresh(ctx); err != nil {
		return note, err
	}
	return note, nil
}

func (c *Collection) Delete(ctx context.Context, id int64) error {
	if err := c.api.DeleteNote(ctx, id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// TagVocabulary derives the distinct tags across the cached notes:
// trimmed, non-empty, sorted ascending, case preserved. Recomputed on
// every call, never cached.
func (c *Collection) TagVocabulary() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := map[string]bool{}
	vocabulary := []string{}
	for _, n := range c.notes {
		for _, tag := range n.Tags {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			vocabulary = append(vocabulary, tag)
		}
	}
	sort.Strings(vocabulary)
	return vocabulary
}

// FolderVocabulary derives the distinct folder labels the same way.
func (c *Collection) FolderVocabulary() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := map[string]bool{}
	vocabulary := []string{}
	for _, n := range c.notes {
		folder := strings.TrimSpace(n.Folder)
		if folder == "" || seen[folder] {
			continue
		}
		seen[folder] = true
		vocabulary = append(vocabulary, folder)
	}
	sort.Strings(vocabulary)
	return vocabulary
}

func requestError(err error) error {
	return &api.Error{Kind: api.ErrorValidationFailed, Message: "invalid note: " + err.Error()}
}
