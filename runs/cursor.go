package runs

// cursor is the RunGoesTo/ThrowAwayUpTo discipline used by every
// splitting pass below, grounded on original_source/src/split_runs.cc's
// RunSplitter: a single forward-moving position over a run list that
// can split a straddling run or erase a prefix of runs.
type cursor struct {
	runs  []TextRun
	index int
}

func (c *cursor) at() *TextRun { return &c.runs[c.index] }

// previous returns the run just before the cursor's current position,
// mirroring RunSplitter::previous_run (used by the forced-line-break
// pass to mark end_of_line on the run preceding a separator).
func (c *cursor) previous() *TextRun { return &c.runs[c.index-1] }

// RunGoesTo advances the cursor to the run ending exactly at index,
// splitting the straddling run if index falls strictly inside it.
// callback is invoked on every fully-consumed run (the straddling
// run's head, once split) but not on the remainder that stays current.
func (c *cursor) RunGoesTo(index int, callback func(*TextRun)) {
	for c.at().End < index {
		callback(c.at())
		c.index++
	}
	if c.at().End == index {
		callback(c.at())
		c.index++
		return
	}
	head := *c.at()
	head.End = index
	c.runs = append(c.runs, TextRun{})
	copy(c.runs[c.index+1:], c.runs[c.index:])
	c.runs[c.index] = head
	callback(&c.runs[c.index])
	c.runs[c.index+1].Start = index
	c.index++
}

// ThrowAwayUpTo deletes every run up to index, shrinking a straddling
// run's Start to index instead of splitting it off.
func (c *cursor) ThrowAwayUpTo(index int) {
	for c.at().End < index {
		c.runs = append(c.runs[:c.index], c.runs[c.index+1:]...)
	}
	if c.at().End == index {
		c.runs = append(c.runs[:c.index], c.runs[c.index+1:]...)
		return
	}
	c.at().Start = index
}
