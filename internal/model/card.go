package model

// ChecklistItem is a single completable row of a card checklist.
type ChecklistItem struct {
	// ID is the check item identifier, unique within its checklist.
	ID string `json:"id"`

	// ChecklistID identifies the checklist the item belongs to. Cards
	// can carry several checklists; they are flattened for display but
	// the owning checklist is still needed to address the item.
	ChecklistID string `json:"checklist_id"`

	// Name is the display text of the item.
	Name string `json:"name"`

	// Complete reports whether the item is checked off.
	Complete bool `json:"complete"`
}

// CardSummary is the list-row view of a card.
type CardSummary struct {
	// ID is the card identifier, unique within a fetched list.
	ID string `json:"id"`

	// Name is the card title.
	Name string `json:"name"`

	// LabelColors holds the color names of the card labels. Labels
	// without a color are omitted.
	LabelColors []string `json:"label_colors,omitempty"`

	// HasDueDate is true when the card carries a non-null due date.
	HasDueDate bool `json:"has_due_date"`

	// IsDone is true when every checklist item on the card is checked.
	// Cards without checklist items are never done.
	IsDone bool `json:"is_done"`
}

// FullCard is the detail view of a single card.
type FullCard struct {
	Summary     CardSummary `json:"summary"`
	Description string      `json:"description"`
	DueDate     string      `json:"due_date,omitempty"`

	// Comments are formatted as "<author>: <text>" in the order the
	// API returned them.
	Comments []string `json:"comments,omitempty"`

	// Checklist holds the items of every checklist on the card,
	// flattened in API order.
	Checklist []ChecklistItem `json:"checklist,omitempty"`
}

// CompletedItems returns the number of checked checklist items.
func (c *FullCard) CompletedItems() int {
	n := 0
	for _, item := range c.Checklist {
		if item.Complete {
			n++
		}
	}
	return n
}

// CardDraft holds the fields of a card that is being composed.
type CardDraft struct {
	Name        string
	Description string
}

// DraftField selects which CardDraft field the input buffer is editing.
type DraftField int

const (
	DraftName DraftField = iota
	DraftDescription
)
