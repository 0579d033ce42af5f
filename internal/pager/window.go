package pager

// Controls is the layout of the pagination bar for one page.
type Controls struct {
	Current      int
	TotalPages   int
	PrevDisabled bool
	NextDisabled bool
	// First and Last are set when the window does not reach page 1 or the
	// last page; the matching ellipsis is set when pages are skipped between
	// the jump button and the window.
	First         bool
	LeadEllipsis  bool
	Pages         []int
	TrailEllipsis bool
	Last          bool
}

// Window lays out at most maxButtons page numbers centered on current and
// clamped to [1, total]. With a single page (or none) there are no page
// buttons and both Prev and Next are disabled.
func Window(current, total, maxButtons int) Controls {
	if maxButtons <= 0 {
		maxButtons = MaxButtons
	}
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	c := Controls{
		Current:      current,
		TotalPages:   total,
		PrevDisabled: current <= 1,
		NextDisabled: current >= total,
	}
	if total <= 1 {
		return c
	}

	start := current - maxButtons/2
	end := start + maxButtons - 1
	if start < 1 {
		start = 1
		end = maxButtons
	}
	if end > total {
		end = total
		start = total - maxButtons + 1
		if start < 1 {
			start = 1
		}
	}

	for p := start; p <= end; p++ {
		c.Pages = append(c.Pages, p)
	}
	if start > 1 {
		c.First = true
		c.LeadEllipsis = start > 2
	}
	if end < total {
		c.Last = true
		c.TrailEllipsis = end < total-1
	}
	return c
}

// ForPage is Window for a paginated page with the default button count.
func ForPage(p Page) Controls {
	return Window(p.Number, p.TotalPages, MaxButtons)
}
