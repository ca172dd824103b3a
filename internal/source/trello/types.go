package trello

import "encoding/json"

// Card is a card as returned by GET /lists/{id}/cards and
// GET /cards/{id}. Only the requested fields are populated.
type Card struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Desc   string  `json:"desc"`
	Labels []Label `json:"labels"`

	// Due is kept raw so that an absent field and an explicit null can
	// both be told apart from a set date.
	Due json.RawMessage `json:"due"`

	Badges *Badges `json:"badges"`

	// When actions=commentCard
	Actions []Action `json:"actions,omitempty"`
	// When checklists=all
	Checklists []Checklist `json:"checklists,omitempty"`
}

// Label is a colored card label. Color is null for colorless labels.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Badges summarizes card activity. CheckItems is absent on some
// payloads; a nil pointer means no badge data.
type Badges struct {
	CheckItems        *int `json:"checkItems"`
	CheckItemsChecked int  `json:"checkItemsChecked"`
	Comments          int  `json:"comments"`
}

// Action is an entry of a card's action history.
type Action struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Date          string     `json:"date"`
	Data          ActionData `json:"data"`
	MemberCreator Member     `json:"memberCreator"`
}

// ActionData holds the payload of an action; Text is set for comments.
type ActionData struct {
	Text string `json:"text"`
}

// Member is a Trello user.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Checklist groups check items on a card.
type Checklist struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	CheckItems []CheckItem `json:"checkItems"`
}

// CheckItem is one row of a checklist. State is "complete" or
// "incomplete".
type CheckItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	IDChecklist string `json:"idChecklist"`
}

// actionTypeComment is the action type of card comments.
const actionTypeComment = "commentCard"

// checkItemComplete is the state value of a checked item.
const checkItemComplete = "complete"

// CommentRequest is the body of POST /cards/{id}/actions/comments.
type CommentRequest struct {
	Text string `json:"text"`
}

// CheckItemStateRequest is the body of the check item update.
type CheckItemStateRequest struct {
	State string `json:"state"`
}

// CreateCardRequest is the body of POST /cards.
type CreateCardRequest struct {
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	IDList string `json:"idList"`
}

// Me is the response from GET /members/me.
type Me struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}
