package grouping

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"noteapp-client/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 15, 30, 0, 0, time.UTC)
}

func sampleNotes() []domain.Note {
	return []domain.Note{
		{ID: 1, Title: "apple pie", IsPinned: true, Tags: domain.TagList{"a", "b"}, CreatedAt: day(1), UpdatedAt: day(3)},
		{ID: 2, Title: "Banana", Tags: domain.TagList{"b"}, CreatedAt: day(2), UpdatedAt: day(2)},
		{ID: 3, Title: "Apple cake", Tags: domain.TagList{}, CreatedAt: day(3)},
		{ID: 4, Title: "cherry", IsPinned: true, Tags: domain.TagList{"a"}, CreatedAt: day(1), UpdatedAt: day(2)},
	}
}

func groupTitles(groups []Group) []string {
	titles := make([]string, len(groups))
	for i, g := range groups {
		titles[i] = g.Title
	}
	return titles
}

func noteIDs(notes []domain.Note) []int64 {
	ids := make([]int64, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return ids
}

func TestGroupNotesAll(t *testing.T) {
	groups := GroupNotes(sampleNotes(), ModeAll)

	if got := groupTitles(groups); !reflect.DeepEqual(got, []string{"Pinned Notes", "Other Notes"}) {
		t.Fatalf("titles = %v", got)
	}
	if got := noteIDs(groups[0].Notes); !reflect.DeepEqual(got, []int64{1, 4}) {
		t.Errorf("pinned ids = %v, want [1 4]", got)
	}
	if got := noteIDs(groups[1].Notes); !reflect.DeepEqual(got, []int64{2, 3}) {
		t.Errorf("other ids = %v, want [2 3]", got)
	}

	// Union across groups is the input set, once each.
	var all []int64
	for _, g := range groups {
		all = append(all, noteIDs(g.Notes)...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	if !reflect.DeepEqual(all, []int64{1, 2, 3, 4}) {
		t.Errorf("union = %v, want every note exactly once", all)
	}

	for _, n := range groups[1].Notes {
		if n.IsPinned {
			t.Errorf("pinned note %d appeared in Other Notes", n.ID)
		}
	}
}

func TestGroupNotesAllOmitsEmptyGroups(t *testing.T) {
	unpinnedOnly := []domain.Note{{ID: 1, Title: "x"}, {ID: 2, Title: "y"}}
	groups := GroupNotes(unpinnedOnly, ModeAll)
	if got := groupTitles(groups); !reflect.DeepEqual(got, []string{"Other Notes"}) {
		t.Errorf("titles = %v, want only Other Notes", got)
	}

	pinnedOnly := []domain.Note{{ID: 1, Title: "x", IsPinned: true}}
	groups = GroupNotes(pinnedOnly, ModeAll)
	if got := groupTitles(groups); !reflect.DeepEqual(got, []string{"Pinned Notes"}) {
		t.Errorf("titles = %v, want only Pinned Notes", got)
	}

	if got := GroupNotes(nil, ModeAll); len(got) != 0 {
		t.Errorf("expected no groups for no notes, got %v", got)
	}
}

func TestGroupNotesByTag(t *testing.T) {
	groups := GroupNotes(sampleNotes(), ModeTag)

	titles := groupTitles(groups)
	if !sort.StringsAreSorted(titles) {
		t.Errorf("group titles not ascending: %v", titles)
	}

	byTitle := map[string][]int64{}
	for _, g := range groups {
		byTitle[g.Title] = noteIDs(g.Notes)
	}

	// Note 1 has tags a and b: it appears once in each.
	if got := byTitle["a"]; !reflect.DeepEqual(got, []int64{1, 4}) {
		t.Errorf("group a = %v, want [1 4]", got)
	}
	if got := byTitle["b"]; !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Errorf("group b = %v, want [1 2] (pinned first)", got)
	}
	// Note 3 has no tags: only in Untagged.
	if got := byTitle["Untagged"]; !reflect.DeepEqual(got, []int64{3}) {
		t.Errorf("Untagged = %v, want [3]", got)
	}
	for title, ids := range byTitle {
		if title == "Untagged" {
			continue
		}
		for _, id := range ids {
			if id == 3 {
				t.Errorf("untagged note leaked into group %q", title)
			}
		}
	}
}

func TestGroupNotesByTagDuplicateTag(t *testing.T) {
	notes := []domain.Note{{ID: 1, Title: "t", Tags: domain.TagList{"a", "a"}}}
	groups := GroupNotes(notes, ModeTag)
	if len(groups) != 1 || len(groups[0].Notes) != 1 {
		t.Errorf("note with a repeated tag must appear once in its group, got %v", groups)
	}
}

func TestGroupNotesByDate(t *testing.T) {
	groups := GroupNotes(sampleNotes(), ModeDate)

	want := []string{"June 3, 2025", "June 2, 2025"}
	if got := groupTitles(groups); !reflect.DeepEqual(got, want) {
		t.Fatalf("titles = %v, want %v (newest first)", got, want)
	}

	// June 3: note 1 (updated then) and note 3 (no update, created then).
	if got := noteIDs(groups[0].Notes); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Errorf("June 3 = %v, want [1 3]", got)
	}
	// June 2: pinned note 4 precedes unpinned note 2.
	if got := noteIDs(groups[1].Notes); !reflect.DeepEqual(got, []int64{4, 2}) {
		t.Errorf("June 2 = %v, want [4 2] (pinned first)", got)
	}
}

func TestGroupNotesByAlphabet(t *testing.T) {
	notes := []domain.Note{
		{ID: 1, Title: "apple"},
		{ID: 2, Title: "Apple", IsPinned: true},
		{ID: 3, Title: "banana"},
	}
	groups := GroupNotes(notes, ModeAlphabet)

	if got := groupTitles(groups); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("titles = %v, want [A B]", got)
	}
	// apple and Apple share the A group, pinned first.
	if got := noteIDs(groups[0].Notes); !reflect.DeepEqual(got, []int64{2, 1}) {
		t.Errorf("A group = %v, want [2 1]", got)
	}
}

func TestGroupNotesDeterministic(t *testing.T) {
	for _, mode := range []Mode{ModeAll, ModeTag, ModeDate, ModeAlphabet} {
		first := GroupNotes(sampleNotes(), mode)
		second := GroupNotes(sampleNotes(), mode)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("mode %s: identical input produced different output", mode)
		}
	}
}

func TestGroupNotesDoesNotMutateInput(t *testing.T) {
	input := sampleNotes()
	snapshot := sampleNotes()
	for _, mode := range []Mode{ModeAll, ModeTag, ModeDate, ModeAlphabet} {
		GroupNotes(input, mode)
	}
	if !reflect.DeepEqual(input, snapshot) {
		t.Error("GroupNotes mutated its input")
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("tag") != ModeTag || ParseMode("date") != ModeDate || ParseMode("alphabet") != ModeAlphabet {
		t.Error("known modes must parse to themselves")
	}
	if ParseMode("") != ModeAll || ParseMode("bogus") != ModeAll {
		t.Error("unknown modes must default to all")
	}
}
