package trello

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/source"
)

// topLevel returns the first non-space byte of a JSON document.
func topLevel(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// ParseCardList parses a GET /lists/{id}/cards response. Anything but a
// JSON array of card objects is a parse error.
func ParseCardList(data []byte) ([]model.CardSummary, error) {
	if topLevel(data) != '[' {
		return nil, source.NewStatusError(model.StatusParseError, "parse card list",
			fmt.Errorf("expected a JSON array"))
	}

	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, source.NewStatusError(model.StatusParseError, "parse card list", err)
	}

	summaries := make([]model.CardSummary, 0, len(cards))
	for _, c := range cards {
		summaries = append(summaries, cardToSummary(c))
	}
	return summaries, nil
}

// ParseCardDetails parses a GET /cards/{id} response into card. On any
// error card is left untouched.
func ParseCardDetails(data []byte, card *model.FullCard) error {
	if topLevel(data) != '{' {
		return source.NewStatusError(model.StatusParseError, "parse card details",
			fmt.Errorf("expected a JSON object"))
	}

	var c Card
	if err := json.Unmarshal(data, &c); err != nil {
		return source.NewStatusError(model.StatusParseError, "parse card details", err)
	}

	full := model.FullCard{
		Summary:     cardToSummary(c),
		Description: c.Desc,
		DueDate:     dueString(c.Due),
	}

	for _, a := range c.Actions {
		if a.Type != actionTypeComment {
			continue
		}
		full.Comments = append(full.Comments, a.MemberCreator.FullName+": "+a.Data.Text)
	}

	for _, cl := range c.Checklists {
		for _, item := range cl.CheckItems {
			checklistID := item.IDChecklist
			if checklistID == "" {
				checklistID = cl.ID
			}
			full.Checklist = append(full.Checklist, model.ChecklistItem{
				ID:          item.ID,
				ChecklistID: checklistID,
				Name:        item.Name,
				Complete:    item.State == checkItemComplete,
			})
		}
	}

	*card = full
	return nil
}

// cardToSummary converts an API card to its list-row form.
func cardToSummary(c Card) model.CardSummary {
	s := model.CardSummary{
		ID:         c.ID,
		Name:       c.Name,
		HasDueDate: hasValue(c.Due),
	}

	for _, l := range c.Labels {
		if l.Color != "" {
			s.LabelColors = append(s.LabelColors, l.Color)
		}
	}

	if c.Badges != nil && c.Badges.CheckItems != nil {
		total := *c.Badges.CheckItems
		s.IsDone = total > 0 && c.Badges.CheckItemsChecked == total
	}

	return s
}

// hasValue reports whether a raw field is present and not null.
func hasValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// dueString renders a raw due field. Strings are unquoted; any other
// non-null value is kept as its JSON text.
func dueString(raw json.RawMessage) string {
	if !hasValue(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
