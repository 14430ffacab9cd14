package schema

// LineConditions returns the lines in schema order that carry at least one
// conditioned cell (a cell with a LineCondition attached). This is the set
// the validator walks when selecting a line type for an incoming record.
func (s *Schema) LineConditions() []*LineDef {
	if s.FixedWidth == nil {
		return nil
	}
	var out []*LineDef
	for _, l := range s.FixedWidth.Lines {
		if lineHasCondition(l) {
			out = append(out, l)
		}
	}
	return out
}

func lineHasCondition(l *LineDef) bool {
	for _, c := range l.Cells {
		if c.LineCondition != nil {
			return true
		}
	}
	return false
}

// DefaultLine returns the schema's unconditioned line definition, used as a
// fallback when no conditioned line matches a record. If more than one line
// is unconditioned, there is no well-defined default and DefaultLine returns
// nil — schemas written this way are ambiguous and every record that
// matches no conditioned line falls through to err:001.
func (s *Schema) DefaultLine() *LineDef {
	if s.FixedWidth == nil {
		return nil
	}
	var def *LineDef
	for _, l := range s.FixedWidth.Lines {
		if !lineHasCondition(l) {
			if def != nil {
				return nil
			}
			def = l
		}
	}
	return def
}

// LineByType returns the line definition with the given LineType, or nil if
// none matches.
func (s *Schema) LineByType(lineType string) *LineDef {
	if s.FixedWidth == nil {
		return nil
	}
	for _, l := range s.FixedWidth.Lines {
		if l.LineType == lineType {
			return l
		}
	}
	return nil
}

// NewlineCharacters returns the schema's configured line separator, with
// escape sequences left for the reader to expand.
func (s *Schema) NewlineCharacters() string {
	if s.FixedWidth == nil {
		return "\n"
	}
	return s.FixedWidth.LineSeparator
}

// SchemaKind returns the tagged-union discriminant identifying which
// schema variant is populated (KindFixedWidth or KindCSV).
func (s *Schema) SchemaKind() Kind {
	return s.Kind
}

// Clone returns a shallow copy of the Schema value itself. The line/cell
// graph underneath is immutable once Load returns, so sharing it across the
// clone is safe; Clone exists only so a caller can hold its own Schema
// value without aliasing the original's pointer.
func (s *Schema) Clone() *Schema {
	c := *s
	return &c
}
