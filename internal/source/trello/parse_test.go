package trello

import (
	"reflect"
	"testing"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/source"
	"github.com/nhle/pocketboard/tests/testutil"
)

func TestParseCardList(t *testing.T) {
	cards, err := ParseCardList([]byte(testutil.SampleListJSON))
	if err != nil {
		t.Fatalf("ParseCardList() error: %v", err)
	}

	want := []model.CardSummary{
		{ID: "c1", Name: "Buy milk", LabelColors: []string{"green"}, HasDueDate: true},
		{ID: "c2", Name: "Ship release", IsDone: true},
		{ID: "c3", Name: "Plan trip"},
	}
	if !reflect.DeepEqual(cards, want) {
		t.Errorf("ParseCardList() =\n%+v\nwant\n%+v", cards, want)
	}
}

func TestParseCardList_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object instead of array", `{"id":"c1"}`},
		{"truncated", `[{"id":"c1"`},
		{"empty", ``},
		{"wrong element type", `[1, 2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCardList([]byte(tt.body))
			if source.StatusOf(err) != model.StatusParseError {
				t.Errorf("status = %v, want parse-error (err %v)", source.StatusOf(err), err)
			}
		})
	}
}

func TestParseCardList_Empty(t *testing.T) {
	cards, err := ParseCardList([]byte(" [] "))
	if err != nil {
		t.Fatalf("ParseCardList() error: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("len = %d, want 0", len(cards))
	}
}

func TestParseCardDetails(t *testing.T) {
	var card model.FullCard
	if err := ParseCardDetails([]byte(testutil.SampleCardJSON), &card); err != nil {
		t.Fatalf("ParseCardDetails() error: %v", err)
	}

	if card.Summary.ID != "c2" || card.Summary.IsDone {
		t.Errorf("summary = %+v", card.Summary)
	}
	if card.Description != "Cut the **tag** and publish." {
		t.Errorf("description = %q", card.Description)
	}
	if card.DueDate != "" {
		t.Errorf("due = %q, want empty", card.DueDate)
	}
	if !reflect.DeepEqual(card.Comments, []string{"Ann Lee: on it"}) {
		t.Errorf("comments = %q", card.Comments)
	}

	wantItems := []model.ChecklistItem{
		{ID: "i1", ChecklistID: "cl1", Name: "Build", Complete: true},
		{ID: "i2", ChecklistID: "cl1", Name: "Test", Complete: true},
		{ID: "i3", ChecklistID: "cl2", Name: "Announce"},
	}
	if !reflect.DeepEqual(card.Checklist, wantItems) {
		t.Errorf("checklist =\n%+v\nwant\n%+v", card.Checklist, wantItems)
	}
	if card.CompletedItems() != 2 {
		t.Errorf("CompletedItems() = %d, want 2", card.CompletedItems())
	}
}

func TestParseCardDetails_ArrayLeavesCardUntouched(t *testing.T) {
	card := model.FullCard{Description: "keep me"}

	err := ParseCardDetails([]byte(testutil.SampleListJSON), &card)
	if source.StatusOf(err) != model.StatusParseError {
		t.Fatalf("status = %v, want parse-error", source.StatusOf(err))
	}
	if card.Description != "keep me" || card.Summary.ID != "" {
		t.Errorf("card modified: %+v", card)
	}
}

func TestCardToSummary_Done(t *testing.T) {
	intp := func(n int) *int { return &n }
	tests := []struct {
		name   string
		badges *Badges
		want   bool
	}{
		{"no badges", nil, false},
		{"no checklist count", &Badges{}, false},
		{"empty checklist", &Badges{CheckItems: intp(0)}, false},
		{"partial", &Badges{CheckItems: intp(3), CheckItemsChecked: 1}, false},
		{"complete", &Badges{CheckItems: intp(2), CheckItemsChecked: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cardToSummary(Card{Badges: tt.badges}).IsDone; got != tt.want {
				t.Errorf("IsDone = %v, want %v", got, tt.want)
			}
		})
	}
}
