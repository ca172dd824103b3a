package nav

// TotalPages returns the number of pages needed for n rows. An empty
// list still has one (empty) page.
func (c *Controller) TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + c.pageSize - 1) / c.pageSize
}

// ValidPage reports whether page exists for n rows.
func (c *Controller) ValidPage(page, n int) bool {
	return page >= 0 && page < c.TotalPages(n)
}

// PageBounds returns the half-open row range [start, end) of page for
// n rows.
func (c *Controller) PageBounds(page, n int) (start, end int) {
	start = page * c.pageSize
	end = min(start+c.pageSize, n)
	if start > end {
		start = end
	}
	return start, end
}

func (c *Controller) count() int {
	return len(c.state.Cards)
}

// Normalize pulls the selection and page back into range after the card
// list changed underneath them.
func (c *Controller) Normalize() {
	n := c.count()
	if n == 0 {
		c.state.Selected = 0
		c.state.Page = 0
		return
	}
	c.state.Selected = max(0, min(c.state.Selected, n-1))
	c.state.Page = c.state.Selected / c.pageSize
}

// NextPage moves to the following page and selects its first row. It
// does nothing on the last page.
func (c *Controller) NextPage() {
	c.Normalize()
	if c.state.Page < c.TotalPages(c.count())-1 {
		c.state.Page++
		c.state.Selected = c.state.Page * c.pageSize
	}
}

// PreviousPage moves to the preceding page and selects its first row.
// It does nothing on the first page.
func (c *Controller) PreviousPage() {
	c.Normalize()
	if c.state.Page > 0 {
		c.state.Page--
		c.state.Selected = c.state.Page * c.pageSize
	}
}

// SelectNext moves the selection down one row. Past the end of a page
// it continues on the next page; past the end of the last page it wraps
// to the first row of that same page.
func (c *Controller) SelectNext() {
	n := c.count()
	if n == 0 {
		return
	}
	c.Normalize()

	start, end := c.PageBounds(c.state.Page, n)
	switch {
	case c.state.Selected < end-1:
		c.state.Selected++
	case c.state.Page < c.TotalPages(n)-1:
		c.NextPage()
	default:
		c.state.Selected = start
	}
}

// SelectPrevious moves the selection up one row. Before the start of a
// page it continues on the last row of the previous page; before the
// very first row it wraps to the last row of the last page.
func (c *Controller) SelectPrevious() {
	n := c.count()
	if n == 0 {
		return
	}
	c.Normalize()

	start, _ := c.PageBounds(c.state.Page, n)
	if c.state.Selected > start {
		c.state.Selected--
		return
	}

	if c.state.Page > 0 {
		c.state.Page--
	} else {
		c.state.Page = c.TotalPages(n) - 1
	}
	_, end := c.PageBounds(c.state.Page, n)
	c.state.Selected = end - 1
}

// SetSelection selects row i, clamped to the list, and shows its page.
func (c *Controller) SetSelection(i int) {
	n := c.count()
	if n == 0 {
		return
	}
	c.state.Selected = max(0, min(i, n-1))
	c.state.Page = c.state.Selected / c.pageSize
}

// Selection returns the selected row index.
func (c *Controller) Selection() int {
	return c.state.Selected
}
