package ime

// Hooks into unexported state for the external tests.

func (c *Coordinator) SetCompositionString(text string, cursor int) {
	c.comp.setCompositionString(text, cursor)
}

func (c *Coordinator) Flush() error { return c.comp.flush() }

func (c *Coordinator) Commit(text string) { c.commit(text) }

func (c *Coordinator) ReloadIfNeeded() bool { return c.modes.reloadIfNeeded() }

func (c *Coordinator) HasComposition() bool { return c.comp.composing() }

func (c *Coordinator) ShiftPhase() string { return c.shift.phase.String() }

func (c *Coordinator) Busy() bool { return c.busy }
