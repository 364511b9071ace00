// Package grouping turns a flat note list plus a sort mode into the
// ordered, labeled groups the list surfaces display. Everything here
// is a pure transformation: the input is never mutated and identical
// input always produces identical output.
package grouping

import (
	"sort"
	"time"
	"unicode"

	"noteapp-client/internal/domain"
)

type Mode string

const (
	ModeAll      Mode = "all"
	ModeTag      Mode = "tag"
	ModeDate     Mode = "date"
	ModeAlphabet Mode = "alphabet"
)

const (
	pinnedTitle   = "Pinned Notes"
	otherTitle    = "Other Notes"
	untaggedTitle = "Untagged"

	dateLayout = "January 2, 2006"
)

// ParseMode maps user input onto a Mode, defaulting to ModeAll.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeTag, ModeDate, ModeAlphabet:
		return Mode(s)
	default:
		return ModeAll
	}
}

// Group is a labeled, ordered view into the note list. Notes are
// copies of the input elements, never shared backing storage.
type Group struct {
	Title string
	Notes []domain.Note
}

func GroupNotes(notes []domain.Note, mode Mode) []Group {
	switch mode {
	case ModeTag:
		return byTag(notes)
	case ModeDate:
		return byDate(notes)
	case ModeAlphabet:
		return byAlphabet(notes)
	default:
		return byPin(notes)
	}
}

// byPin produces the fixed "Pinned Notes" / "Other Notes" pair,
// omitting whichever is empty. Relative order within each group is
// the input order.
func byPin(notes []domain.Note) []Group {
	var pinned, other []domain.Note
	for _, n := range notes {
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			other = append(other, n)
		}
	}

	groups := []Group{}
	if len(pinned) > 0 {
		groups = append(groups, Group{Title: pinnedTitle, Notes: pinned})
	}
	if len(other) > 0 {
		groups = append(groups, Group{Title: otherTitle, Notes: other})
	}
	return groups
}

// bucket keeps pinned and unpinned members separate so pinned notes
// can lead the group while both halves keep input order.
type bucket struct {
	pinned []domain.Note
	other  []domain.Note
}

func (b *bucket) add(n domain.Note) {
	if n.IsPinned {
		b.pinned = append(b.pinned, n)
	} else {
		b.other = append(b.other, n)
	}
}

func (b *bucket) flatten() []domain.Note {
	return append(append([]domain.Note{}, b.pinned...), b.other...)
}

// byTag groups one group per distinct tag, labels ascending. A note
// appears once per tag it carries; untagged notes land in a synthetic
// "Untagged" group.
func byTag(notes []domain.Note) []Group {
	buckets := map[string]*bucket{}
	for _, n := range notes {
		labels := n.Tags
		if len(labels) == 0 {
			labels = domain.TagList{untaggedTitle}
		}
		seen := map[string]bool{}
		for _, label := range labels {
			if seen[label] {
				continue
			}
			seen[label] = true
			if buckets[label] == nil {
				buckets[label] = &bucket{}
			}
			buckets[label].add(n)
		}
	}
	return sortedGroups(buckets, sort.Strings)
}

// byDate groups by calendar day of the last modification, newest day
// first, labeled as a long date.
func byDate(notes []domain.Note) []Group {
	buckets := map[string]*bucket{}
	days := map[string]time.Time{}
	for _, n := range notes {
		modified := n.ModifiedAt()
		day := modified.Format(dateLayout)
		if buckets[day] == nil {
			buckets[day] = &bucket{}
			year, month, dom := modified.Date()
			days[day] = time.Date(year, month, dom, 0, 0, 0, 0, modified.Location())
		}
		buckets[day].add(n)
	}
	return sortedGroups(buckets, func(labels []string) {
		sort.Slice(labels, func(i, j int) bool {
			return days[labels[i]].After(days[labels[j]])
		})
	})
}

// byAlphabet groups by the first letter of the title, case-normalized
// to uppercase, labels ascending.
func byAlphabet(notes []domain.Note) []Group {
	buckets := map[string]*bucket{}
	for _, n := range notes {
		label := "#"
		for _, r := range n.Title {
			label = string(unicode.ToUpper(r))
			break
		}
		if buckets[label] == nil {
			buckets[label] = &bucket{}
		}
		buckets[label].add(n)
	}
	return sortedGroups(buckets, sort.Strings)
}

func sortedGroups(buckets map[string]*bucket, order func([]string)) []Group {
	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	order(labels)

	groups := make([]Group, 0, len(labels))
	for _, label := range labels {
		groups = append(groups, Group{Title: label, Notes: buckets[label].flatten()})
	}
	return groups
}
