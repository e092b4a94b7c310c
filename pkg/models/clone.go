package models

// Clone helpers produce deep copies so snapshots and API views never alias
// live wizard state.

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneIntPtr(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func (s *Subsection) Clone() *Subsection {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Content = cloneStringPtr(s.Content)
	return &clone
}

func (ch *Chapter) Clone() *Chapter {
	if ch == nil {
		return nil
	}
	clone := *ch
	clone.Description = cloneStringPtr(ch.Description)
	clone.ErrorMessage = cloneStringPtr(ch.ErrorMessage)
	clone.Subsections = make([]*Subsection, len(ch.Subsections))
	for i, sub := range ch.Subsections {
		clone.Subsections[i] = sub.Clone()
	}
	return &clone
}

func (o *Outline) Clone() *Outline {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Chapters = make([]*Chapter, len(o.Chapters))
	for i, ch := range o.Chapters {
		clone.Chapters[i] = ch.Clone()
	}
	return &clone
}

func (c *Cover) Clone() *Cover {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Subtitle = cloneStringPtr(c.Subtitle)
	return &clone
}

func (t *TitleOptions) Clone() *TitleOptions {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Options = append([]string(nil), t.Options...)
	clone.SelectedIndex = cloneIntPtr(t.SelectedIndex)
	clone.CustomTitle = cloneStringPtr(t.CustomTitle)
	return &clone
}

func (e *Ebook) Clone() *Ebook {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Outline = e.Outline.Clone()
	clone.Cover = e.Cover.Clone()
	return &clone
}

func (p GenerationProgress) Clone() GenerationProgress {
	clone := p
	clone.ErrorMessage = cloneStringPtr(p.ErrorMessage)
	return clone
}
