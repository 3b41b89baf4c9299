package sfc

// Marker is a closing marker the segmenter skipped because it did not match
// the innermost open region.
type Marker struct {
	Type   BlockType `json:"type"   yaml:"type"`
	Offset int       `json:"offset" yaml:"offset"`
}

type frame struct {
	typ   BlockType
	attrs []Attr
	start int
}

// Segmenter scans documents with an explicit stack of open regions.
// Mismatched closing markers are tolerated and recorded in Skipped.
type Segmenter struct {
	Skipped []Marker
	stack   []frame
}

// Segment splits text into top-level blocks.
func Segment(text string) []Block {
	var s Segmenter

	return s.Segment(text)
}

// Depth returns the number of regions still open after the last scan.
func (s *Segmenter) Depth() int {
	return len(s.stack)
}

// Segment splits text into top-level blocks. Content is the exact substring
// between a depth-0 opening marker and its matching closing marker.
func (s *Segmenter) Segment(text string) []Block {
	var blocks []Block

	s.stack = s.stack[:0]
	s.Skipped = nil
	pos := 0

	for {
		rest := text[pos:]
		open := openMarker.FindStringSubmatchIndex(rest)
		closing := closeMarker.FindStringSubmatchIndex(rest)

		if open == nil && closing == nil {
			break
		}

		if open != nil && (closing == nil || open[0] < closing[0]) {
			s.stack = append(s.stack, frame{
				typ:   BlockType(rest[open[2]:open[3]]),
				attrs: ParseAttrs(rest[open[4]:open[5]]),
				start: pos + open[1],
			})
			pos += open[1]

			continue
		}

		typ := BlockType(rest[closing[2]:closing[3]])
		end := pos + closing[0]
		pos += closing[1]

		if len(s.stack) == 0 || s.stack[len(s.stack)-1].typ != typ {
			s.Skipped = append(s.Skipped, Marker{Type: typ, Offset: end})

			continue
		}

		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		if len(s.stack) == 0 {
			blocks = append(blocks, Block{Type: top.typ, Attrs: top.attrs, Content: text[top.start:end]})
		}
	}

	return blocks
}
