package notes

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"noteapp-client/internal/api"
	"noteapp-client/internal/domain"
)

type mockAPI struct {
	notes     []domain.Note
	listCalls int
	listErr   error
	listHook  func()
	createErr error
	updateErr error
	deleteErr error
	nextID    int64
}

func newMockAPI(existing ...domain.Note) *mockAPI {
	m := &mockAPI{notes: existing, nextID: 100}
	return m
}

func (m *mockAPI) ListNotes(ctx context.Context) ([]domain.Note, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	// Snapshot first so a hook that mutates state mid-flight models a
	// response computed before a newer request landed.
	snapshot := append([]domain.Note(nil), m.notes...)
	if m.listHook != nil {
		hook := m.listHook
		m.listHook = nil
		hook()
	}
	return snapshot, nil
}

func (m *mockAPI) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	for _, n := range m.notes {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, &api.Error{Kind: api.ErrorNotFound, Message: "note not found"}
}

func (m *mockAPI) CreateNote(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	note := domain.Note{ID: m.nextID, Title: req.Title, Content: req.Content, Tags: req.Tags, Folder: req.Folder, IsPinned: req.IsPinned}
	m.notes = append(m.notes, note)
	return &note, nil
}

func (m *mockAPI) UpdateNote(ctx context.Context, id int64, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for i, n := range m.notes {
		if n.ID == id {
			m.notes[i].Title = req.Title
			m.notes[i].Content = req.Content
			m.notes[i].Tags = req.Tags
			m.notes[i].Folder = req.Folder
			m.notes[i].IsPinned = req.IsPinned
			return &m.notes[i], nil
		}
	}
	return nil, &api.Error{Kind: api.ErrorNotFound, Message: "note not found"}
}

func (m *mockAPI) DeleteNote(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, n := range m.notes {
		if n.ID == id {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return &api.Error{Kind: api.ErrorNotFound, Message: "note not found"}
}

func TestRefreshReplacesState(t *testing.T) {
	mock := newMockAPI(domain.Note{ID: 1, Title: "one"}, domain.Note{ID: 2, Title: "two"})
	collection := NewCollection(mock)

	if err := collection.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh error: %v", err)
	}
	list := collection.Notes()
	if len(list) != 2 || list[0].Title != "one" {
		t.Errorf("notes = %+v", list)
	}

	mock.notes = []domain.Note{{ID: 3, Title: "three"}}
	if err := collection.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh error: %v", err)
	}
	list = collection.Notes()
	if len(list) != 1 || list[0].ID != 3 {
		t.Errorf("refresh must replace wholesale, got %+v", list)
	}
}

func TestCreateRefetches(t *testing.T) {
	mock := newMockAPI()
	collection := NewCollection(mock)

	note, err := collection.Create(context.Background(), &domain.CreateNoteRequest{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if note.Title != "T" {
		t.Errorf("created = %+v", note)
	}
	if mock.listCalls != 1 {
		t.Errorf("list calls = %d, want refetch after create", mock.listCalls)
	}

	found := false
	for _, n := range collection.Notes() {
		if n.Title == "T" {
			found = true
		}
	}
	if !found {
		t.Error("created note missing from refreshed state")
	}
}

func TestCreateFailureLeavesStateUntouched(t *testing.T) {
	mock := newMockAPI(domain.Note{ID: 1, Title: "existing"})
	collection := NewCollection(mock)
	collection.Refresh(context.Background())
	before := collection.Notes()
	listCallsBefore := mock.listCalls

	mock.createErr = &api.Error{Kind: api.ErrorServer, Message: "boom"}
	_, err := collection.Create(context.Background(), &domain.CreateNoteRequest{Title: "T"})
	if err == nil {
		t.Fatal("expected create error")
	}

	if !reflect.DeepEqual(collection.Notes(), before) {
		t.Error("failed create must not change local state")
	}
	if mock.listCalls != listCallsBefore {
		t.Error("failed create must not trigger a refetch")
	}
}

func TestCreateValidation(t *testing.T) {
	mock := newMockAPI()
	collection := NewCollection(mock)

	_, err := collection.Create(context.Background(), &domain.CreateNoteRequest{Title: ""})
	if api.KindOf(err) != api.ErrorValidationFailed {
		t.Errorf("empty title: kind = %q, want validation_failed", api.KindOf(err))
	}

	_, err = collection.Create(context.Background(), &domain.CreateNoteRequest{
		Title: "T",
		Tags:  domain.TagList{"a", "b", "c", "d"},
	})
	if api.KindOf(err) != api.ErrorValidationFailed {
		t.Errorf("four tags: kind = %q, want validation_failed", api.KindOf(err))
	}
	if mock.listCalls != 0 {
		t.Error("validation failures must not reach the network")
	}
}

func TestUpdateRefetches(t *testing.T) {
	mock := newMockAPI(domain.Note{ID: 1, Title: "old"})
	collection := NewCollection(mock)

	_, err := collection.Update(context.Background(), 1, &domain.UpdateNoteRequest{Title: "new"})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	list := collection.Notes()
	if len(list) != 1 || list[0].Title != "new" {
		t.Errorf("notes = %+v", list)
	}
}

func TestDeleteRefetches(t *testing.T) {
	mock := newMockAPI(domain.Note{ID: 1, Title: "bye"}, domain.Note{ID: 2, Title: "stay"})
	collection := NewCollection(mock)

	if err := collection.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	list := collection.Notes()
	if len(list) != 1 || list[0].ID != 2 {
		t.Errorf("notes = %+v", list)
	}

	mock.deleteErr = &api.Error{Kind: api.ErrorNotFound, Message: "gone"}
	if err := collection.Delete(context.Background(), 99); err == nil {
		t.Error("expected delete error")
	}
	if !reflect.DeepEqual(collection.Notes(), list) {
		t.Error("failed delete must not change local state")
	}
}

func TestStaleRefreshDiscarded(t *testing.T) {
	mock := newMockAPI(domain.Note{ID: 1, Title: "stale"})
	collection := NewCollection(mock)

	// While the first refresh is in flight, a second one starts and
	// completes with newer data. The first response resolves last and
	// must be discarded, not overwrite the newer state.
	mock.listHook = func() {
		mock.notes = []domain.Note{{ID: 2, Title: "fresh"}}
		if err := collection.Refresh(context.Background()); err != nil {
			t.Fatalf("inner refresh error: %v", err)
		}
	}

	if err := collection.Refresh(context.Background()); err != nil {
		t.Fatalf("outer refresh error: %v", err)
	}

	list := collection.Notes()
	if len(list) != 1 || list[0].ID != 2 {
		t.Errorf("notes = %+v, want the fresh list to win", list)
	}
}

func TestTagVocabulary(t *testing.T) {
	mock := newMockAPI(
		domain.Note{ID: 1, Tags: domain.TagList{"x", "y"}},
		domain.Note{ID: 2, Tags: domain.TagList{"y"}},
		domain.Note{ID: 3},
	)
	collection := NewCollection(mock)
	collection.Refresh(context.Background())

	if got := collection.TagVocabulary(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("vocabulary = %v, want [x y]", got)
	}
}

func TestTagVocabularyPreservesCase(t *testing.T) {
	mock := newMockAPI(
		domain.Note{ID: 1, Tags: domain.TagList{"Work"}},
		domain.Note{ID: 2, Tags: domain.TagList{"work"}},
	)
	collection := NewCollection(mock)
	collection.Refresh(context.Background())

	if got := collection.TagVocabulary(); !reflect.DeepEqual(got, []string{"Work", "work"}) {
		t.Errorf("vocabulary = %v, want case preserved [Work work]", got)
	}
}

func TestFolderVocabulary(t *testing.T) {
	mock := newMockAPI(
		domain.Note{ID: 1, Folder: "inbox"},
		domain.Note{ID: 2, Folder: "  archive "},
		domain.Note{ID: 3, Folder: "inbox"},
		domain.Note{ID: 4, Folder: ""},
		domain.Note{ID: 5, Folder: "   "},
	)
	collection := NewCollection(mock)
	collection.Refresh(context.Background())

	if got := collection.FolderVocabulary(); !reflect.DeepEqual(got, []string{"archive", "inbox"}) {
		t.Errorf("vocabulary = %v, want [archive inbox]", got)
	}
}

func TestGetPassthrough(t *testing.T) {
	mock := newMockAPI(domain.Note{ID: 7, Title: "seven"})
	collection := NewCollection(mock)

	note, err := collection.Get(context.Background(), 7)
	if err != nil || note.Title != "seven" {
		t.Errorf("got (%+v, %v)", note, err)
	}

	_, err = collection.Get(context.Background(), 8)
	if !api.IsNotFound(err) {
		t.Errorf("missing note: got %v, want not_found", err)
	}
}

func TestRefreshErrorKeepsState(t *testing.T) {
	mock := newMockAPI(domain.Note{ID: 1, Title: "keep"})
	collection := NewCollection(mock)
	collection.Refresh(context.Background())

	mock.listErr = errors.New("server down")
	if err := collection.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if len(collection.Notes()) != 1 {
		t.Error("failed refresh must keep prior state")
	}
}
