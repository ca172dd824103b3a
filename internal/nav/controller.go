// Package nav tracks which screen is active, how the user got there, and
// what they were typing. It owns the back-stack; everything else lives
// in the shared model.AppState.
package nav

import (
	"unicode/utf8"

	"github.com/nhle/pocketboard/internal/model"
)

// Controller layers a stack of prior navigation contexts over a shared
// AppState. Every operation is total: out-of-range input is clamped or
// ignored, never a panic.
type Controller struct {
	state    *model.AppState
	stack    []model.NavigationContext
	pageSize int
	maxInput int
}

// New returns a Controller over state. pageSize and maxInput fall back
// to 5 and 100 when not positive.
func New(state *model.AppState, pageSize, maxInput int) *Controller {
	if pageSize < 1 {
		pageSize = 5
	}
	if maxInput < 1 {
		maxInput = 100
	}
	return &Controller{
		state:    state,
		pageSize: pageSize,
		maxInput: maxInput,
	}
}

// PageSize returns the number of rows per page.
func (c *Controller) PageSize() int { return c.pageSize }

// MaxInput returns the input buffer capacity in characters.
func (c *Controller) MaxInput() int { return c.maxInput }

// current captures the navigable part of the shared state.
func (c *Controller) current() model.NavigationContext {
	return model.NavigationContext{
		Screen:   c.state.Screen,
		Selected: c.state.Selected,
		Page:     c.state.Page,
		Input:    c.state.Input,
	}
}

// Push records the current context and switches to target. The context
// is appended only when it differs from the top of the stack, so
// repeated pushes from an unchanged screen do not pile up. A non-empty
// cardID is attached to the recorded context.
func (c *Controller) Push(target model.ScreenState, selected, page int, cardID string) {
	ctx := c.current()
	if n := len(c.stack); n == 0 || !c.stack[n-1].SamePosition(ctx) {
		c.stack = append(c.stack, ctx)
	}

	c.state.Screen = target
	c.state.Selected = selected
	c.state.Page = page
	c.state.Input = ""

	if cardID != "" {
		c.stack[len(c.stack)-1].CardID = cardID
	}
}

// Pop restores the most recently pushed context. It returns false, and
// changes nothing, when there is no history.
func (c *Controller) Pop() bool {
	n := len(c.stack)
	if n == 0 {
		return false
	}

	prev := c.stack[n-1]
	c.stack = c.stack[:n-1]

	c.state.Screen = prev.Screen
	c.state.Selected = prev.Selected
	c.state.Page = prev.Page
	c.state.Input = prev.Input
	return true
}

// Clear discards all history.
func (c *Controller) Clear() {
	c.stack = c.stack[:0]
}

// CanGoBack reports whether Pop would succeed.
func (c *Controller) CanGoBack() bool {
	return len(c.stack) > 0
}

// Depth returns the number of stacked contexts.
func (c *Controller) Depth() int {
	return len(c.stack)
}

// Stack returns a copy of the history, oldest first.
func (c *Controller) Stack() []model.NavigationContext {
	out := make([]model.NavigationContext, len(c.stack))
	copy(out, c.stack)
	return out
}

// SetScreen switches screens without recording history.
func (c *Controller) SetScreen(s model.ScreenState) {
	c.state.Screen = s
}

// Screen returns the active screen.
func (c *Controller) Screen() model.ScreenState {
	return c.state.Screen
}

// CardID returns the card associated with the current context: the one
// stored on the top of the stack, or else the selected row.
func (c *Controller) CardID() string {
	if n := len(c.stack); n > 0 && c.stack[n-1].CardID != "" {
		return c.stack[n-1].CardID
	}
	if card, ok := c.state.SelectedCard(); ok {
		return card.ID
	}
	return ""
}

// SetCardID attaches id to the top of the stack. It is a no-op with no
// history.
func (c *Controller) SetCardID(id string) {
	if n := len(c.stack); n > 0 {
		c.stack[n-1].CardID = id
	}
}

// Input buffer

// Input returns the text being edited.
func (c *Controller) Input() string {
	return c.state.Input
}

// Append adds r to the input buffer. It refuses, returning false, once
// the buffer holds MaxInput characters.
func (c *Controller) Append(r rune) bool {
	if utf8.RuneCountInString(c.state.Input) >= c.maxInput {
		return false
	}
	c.state.Input += string(r)
	return true
}

// Backspace removes the last character, if any.
func (c *Controller) Backspace() {
	if c.state.Input == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(c.state.Input)
	c.state.Input = c.state.Input[:len(c.state.Input)-size]
}

// ClearInput empties the input buffer.
func (c *Controller) ClearInput() {
	c.state.Input = ""
}

// SetInput replaces the buffer, keeping at most MaxInput characters.
func (c *Controller) SetInput(s string) {
	if utf8.RuneCountInString(s) > c.maxInput {
		s = string([]rune(s)[:c.maxInput])
	}
	c.state.Input = s
}
