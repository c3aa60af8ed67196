package termboard

import "sort"

// --- Proportional storage edit primitives (spec.md §4.2, §4.3) ---
//
// A proportional line has no fixed slot per column: cells are a plain
// sequence whose widths sum to at most l.width. Column-addressed edits
// therefore first locate the cell index at (or nearest to) a display
// column, using the (hintIndex, hintX) cache to avoid rescanning from
// the start on sequential writes (the common case: a shell printing
// left to right).

// indexAtColumn returns the cell index whose display range covers x, and
// the display column at which that cell starts. If x lands past the end
// of content, it returns (len(cells), displayWidth).
func (l *Line) indexAtColumn(x int) (idx, colStart int) {
	i, cx := 0, 0
	if l.hintX <= x && l.hintIndex <= len(l.cells) {
		i, cx = l.hintIndex, l.hintX
	}
	for i < len(l.cells) {
		w := int(l.cells[i].Width)
		if cx+w > x {
			break
		}
		cx += w
		i++
	}
	l.hintIndex, l.hintX = i, cx
	return i, cx
}

func (l *Line) writeProp(pos int, cs []Cell, attr *AttributeTable, fillAttr uint32) {
	idx, colStart := l.indexAtColumn(pos)
	if colStart < pos {
		// pos fell inside a wide cell or past the end; pad with blanks.
		pad := pos - colStart
		blanks := make([]Cell, pad)
		for i := range blanks {
			blanks[i] = BlankCell(fillAttr)
			if attr != nil && i > 0 {
				attr.Retain(fillAttr)
			}
		}
		cs = append(blanks, cs...)
	}
	// Determine how many existing cells this write covers, by display
	// width, so it behaves like an overwrite rather than a pure insert.
	newWidth := 0
	for _, c := range cs {
		newWidth += int(c.Width)
	}
	end := idx
	covered := 0
	for end < len(l.cells) && covered < newWidth {
		covered += int(l.cells[end].Width)
		end++
	}
	if attr != nil {
		for i := idx; i < end; i++ {
			attr.Release(l.cells[i].AttrHandle)
		}
	}
	tail := append([]Cell{}, l.cells[end:]...)
	head := append([]Cell{}, l.cells[:idx]...)
	l.cells = append(append(head, cs...), tail...)
	l.clampToWidth(fillAttr, attr)
	l.touch()
}

func (l *Line) insertPropBlanks(pos, n int, attr *AttributeTable, fillAttr uint32) {
	idx, _ := l.indexAtColumn(pos)
	blanks := make([]Cell, n)
	for i := range blanks {
		blanks[i] = BlankCell(fillAttr)
		if attr != nil && i > 0 {
			attr.Retain(fillAttr)
		}
	}
	head := append([]Cell{}, l.cells[:idx]...)
	tail := append([]Cell{}, l.cells[idx:]...)
	l.cells = append(append(head, blanks...), tail...)
	l.clampToWidth(fillAttr, attr)
	l.touch()
}

func (l *Line) deletePropCells(pos, n int, attr *AttributeTable, fillAttr uint32) {
	start, _ := l.indexAtColumn(pos)
	end, _ := l.indexAtColumn(pos + n)
	if start >= len(l.cells) {
		return
	}
	if attr != nil {
		for i := start; i < end && i < len(l.cells); i++ {
			attr.Release(l.cells[i].AttrHandle)
		}
	}
	head := append([]Cell{}, l.cells[:start]...)
	tail := append([]Cell{}, l.cells[end:]...)
	l.cells = append(head, tail...)
	l.touch()
}

func (l *Line) erasePropRange(from, to int, fillAttr uint32, attr *AttributeTable, protect bool) {
	start, _ := l.indexAtColumn(from)
	end, _ := l.indexAtColumn(to)
	first := true
	for i := start; i < end && i < len(l.cells); i++ {
		if protect && attr != nil && attr.Resolve(l.cells[i].AttrHandle).XFlags&AttrProtected != 0 {
			continue
		}
		if attr != nil {
			attr.Release(l.cells[i].AttrHandle)
			if !first {
				attr.Retain(fillAttr)
			}
			first = false
		}
		l.cells[i] = NULCell(fillAttr)
	}
	l.touch()
}

// clampToWidth drops trailing cells once the cumulative display width
// exceeds l.width (proportional overflow is simply truncated, spec.md
// §4.2).
func (l *Line) clampToWidth(fillAttr uint32, attr *AttributeTable) {
	w := 0
	for i, c := range l.cells {
		if w+int(c.Width) > l.width {
			if attr != nil {
				for _, dropped := range l.cells[i:] {
					attr.Release(dropped.AttrHandle)
				}
			}
			l.cells = l.cells[:i]
			return
		}
		w += int(c.Width)
	}
}

// --- Nested string forest (spec.md §3, "nested_string") ---

func boolToDir(r2l bool) Direction {
	if r2l {
		return DirR2L
	}
	return DirL2R
}

// nestedStrings returns the cached forest of directional scopes opened by
// SDS/SRS marker cells, rebuilding it if the line changed since the last
// call. Index 0 is always the whole-line pseudo-string.
func (l *Line) nestedStrings() []NestedString {
	if l.stringsDirty {
		l.rebuildStrings()
	}
	return l.stringsCache
}

func (l *Line) rebuildStrings() {
	n := len(l.cells)
	strings := []NestedString{{Begin: 0, End: n, Dir: boolToDir(l.dirR2L), Parent: -1}}
	stack := []int{0}

	for i, c := range l.cells {
		if !c.Char.IsMarker() {
			continue
		}
		switch c.Char.MarkerKind() {
		case MarkerSDSL2R, MarkerSDSR2L:
			dir := DirL2R
			if c.Char.MarkerKind() == MarkerSDSR2L {
				dir = DirR2L
			}
			parent := stack[len(stack)-1]
			strings = append(strings, NestedString{Begin: i + 1, End: n, Dir: dir, Parent: parent})
			stack = append(stack, len(strings)-1)
		case MarkerSRSBegin:
			parent := stack[len(stack)-1]
			dir := DirR2L
			if strings[parent].Dir == DirR2L {
				dir = DirL2R
			}
			strings = append(strings, NestedString{Begin: i + 1, End: n, Dir: dir, Parent: parent})
			stack = append(stack, len(strings)-1)
		case MarkerSDSEnd, MarkerSRSEnd:
			if len(stack) > 1 {
				top := stack[len(stack)-1]
				strings[top].End = i
				stack = stack[:len(stack)-1]
			}
			// An end marker with nothing open is elided (spec.md §3).
		}
	}

	l.stringsCache = strings
	l.stringsDirty = false
}

func (l *Line) depthOf(idx int) int {
	d := 0
	strings := l.stringsCache
	for strings[idx].Parent >= 0 {
		idx = strings[idx].Parent
		d++
	}
	return d
}

// FindInnermostString returns the index into NestedStrings() of the
// deepest scope containing data position x. When leftSide is true and x
// sits exactly on a child's opening boundary, the enclosing (not the
// child) scope is preferred, matching the convention that the boundary
// cell itself belongs to its parent.
func (l *Line) FindInnermostString(x int, leftSide bool) int {
	strings := l.nestedStrings()
	best, bestDepth := 0, -1
	for i, s := range strings {
		if x < s.Begin || x >= s.End {
			continue
		}
		if leftSide && s.Begin == x && i != 0 {
			continue
		}
		if d := l.depthOf(i); d > bestDepth {
			bestDepth, best = d, i
		}
	}
	return best
}

// NestedStrings exposes the cached forest for callers (renderers,
// selection code) that need the raw scopes rather than a position query.
func (l *Line) NestedStrings() []NestedString { return l.nestedStrings() }

// --- Bidi coordinate conversion (spec.md §4.3) ---
//
// presentationOrder recursively reorders each nested string's direct
// children and residual leaf cells: a child whose direction differs from
// its parent has its whole block (already internally ordered by its own
// recursive call) repositioned, without re-ordering the leaves inside it
// a second time. This is the standard nested bidi reordering technique
// and is its own exact inverse, which is what makes to_data_position and
// to_presentation_position the same table looked up in opposite
// directions.
func (l *Line) presentationOrder() []int {
	if l.orderDirty {
		l.rebuildOrder()
	}
	return l.orderCache
}

func (l *Line) rebuildOrder() {
	strings := l.nestedStrings()
	children := make(map[int][]int, len(strings))
	for i, s := range strings {
		if s.Parent >= 0 {
			children[s.Parent] = append(children[s.Parent], i)
		}
	}
	for _, ch := range children {
		sort.Slice(ch, func(a, b int) bool { return strings[ch[a]].Begin < strings[ch[b]].Begin })
	}

	var reorder func(idx int) []int
	reorder = func(idx int) []int {
		s := strings[idx]
		kids := children[idx]
		var segs [][]int
		pos, ki := s.Begin, 0
		for pos < s.End {
			if ki < len(kids) && strings[kids[ki]].Begin == pos {
				child := kids[ki]
				segs = append(segs, reorder(child))
				pos = strings[child].End
				ki++
				continue
			}
			segs = append(segs, []int{pos})
			pos++
		}
		if idx != 0 && s.Dir != strings[s.Parent].Dir {
			for a, b := 0, len(segs)-1; a < b; a, b = a+1, b-1 {
				segs[a], segs[b] = segs[b], segs[a]
			}
		}
		out := make([]int, 0, s.End-s.Begin)
		for _, seg := range segs {
			out = append(out, seg...)
		}
		return out
	}

	order := reorder(0)
	posForData := make([]int, len(order))
	for p, d := range order {
		posForData[d] = p
	}
	l.orderCache = order
	l.posForDataCache = posForData
	l.orderDirty = false
}

// ToPresentationPosition maps a data-coordinate cell index to its
// presentation (visual) cell index.
func (l *Line) ToPresentationPosition(xData int) int {
	n := len(l.cells)
	if xData >= n {
		return xData
	}
	l.presentationOrder()
	return l.posForDataCache[xData]
}

// ToDataPosition is the inverse of ToPresentationPosition.
func (l *Line) ToDataPosition(xPres int) int {
	n := len(l.cells)
	if xPres >= n {
		return xPres
	}
	order := l.presentationOrder()
	return order[xPres]
}

// CalculateDataRangesFromPresentationRange returns the minimal set of
// contiguous [begin,end) data ranges covering presentation positions
// [p1,p2). A contiguous presentation range can split into several data
// ranges whenever it crosses a reversed (or re-reversed) nested string.
func (l *Line) CalculateDataRangesFromPresentationRange(p1, p2 int) [][2]int {
	if p2 <= p1 {
		return nil
	}
	order := l.presentationOrder()
	n := len(order)
	hi := p2
	if hi > n {
		hi = n
	}
	if p1 >= hi {
		return nil
	}
	idxs := append([]int{}, order[p1:hi]...)
	sort.Ints(idxs)
	var ranges [][2]int
	for _, d := range idxs {
		if len(ranges) > 0 && ranges[len(ranges)-1][1] == d {
			ranges[len(ranges)-1][1] = d + 1
			continue
		}
		ranges = append(ranges, [2]int{d, d + 1})
	}
	return ranges
}

// --- Cell array transforms used by the executor's edit primitives ---

// Reverse reverses cs in place (spec.md §4.3's "reverse" primitive). It
// is its own inverse. Nothing in this package calls it.
func Reverse(cs []Cell) {
	for a, b := 0, len(cs)-1; a < b; a, b = a+1, b-1 {
		cs[a], cs[b] = cs[b], cs[a]
	}
}

// ComposeSegments concatenates segments of cells in the order given,
// the inverse of splitting a presentation range into data ranges: it
// exists so callers that sliced a line into directional runs can glue
// the edited runs back into one cell sequence before calling WriteCells.
func ComposeSegments(segments ...[]Cell) []Cell {
	n := 0
	for _, s := range segments {
		n += len(s)
	}
	out := make([]Cell, 0, n)
	for _, s := range segments {
		out = append(out, s...)
	}
	return out
}

// --- Selection (spec.md §4.3) ---

// SetSelection toggles AttrSelected on cells spanning the data range
// [from,to), without touching any other attribute bit or interning a new
// handle class (selection is applied as a render-time overlay by
// toggling the bit already present in the resolved attribute, written
// back through the table so refcounting still applies).
func (l *Line) SetSelection(from, to int, attr *AttributeTable, selected bool) {
	if from < 0 {
		from = 0
	}
	if to > len(l.cells) {
		to = len(l.cells)
	}
	for i := from; i < to; i++ {
		cur := attr.Resolve(l.cells[i].AttrHandle)
		want := cur.XFlags&AttrSelected != 0
		if want == selected {
			continue
		}
		if selected {
			cur.XFlags |= AttrSelected
		} else {
			cur.XFlags &^= AttrSelected
		}
		old := l.cells[i].AttrHandle
		l.cells[i].AttrHandle = attr.Intern(cur)
		attr.Release(old)
	}
	l.touch()
}

// isWordByte reports whether r participates in SelectWord's notion of a
// "word": letters, digits, and underscore.
func isWordByte(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case r > 0x7F:
		return true // treat all non-ASCII as word-forming, matching typical terminal double-click semantics
	}
	return false
}

// SelectWord returns the [begin,end) data range of the word touching
// data position x (the double-click selection primitive), or (x,x) if x
// sits on a non-word cell.
func (l *Line) SelectWord(x int) (begin, end int) {
	if x < 0 || x >= len(l.cells) || !isWordByte(l.cells[x].Char.Rune()) {
		return x, x
	}
	begin, end = x, x+1
	for begin > 0 && isWordByte(l.cells[begin-1].Char.Rune()) {
		begin--
	}
	for end < len(l.cells) && isWordByte(l.cells[end].Char.Rune()) {
		end++
	}
	return begin, end
}

// ExtractSelection returns the text of the data range [from,to) in
// presentation order, skipping marker, wide-extension and
// cluster-extension cells.
func (l *Line) ExtractSelection(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(l.cells) {
		to = len(l.cells)
	}
	idxs := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		idxs = append(idxs, i)
	}
	if l.mode == LineModeProportional {
		sort.SliceStable(idxs, func(a, b int) bool {
			return l.ToPresentationPosition(idxs[a]) < l.ToPresentationPosition(idxs[b])
		})
	}
	runes := make([]rune, 0, len(idxs))
	for _, i := range idxs {
		c := l.cells[i]
		if c.Char.IsMarker() || c.Char.IsWideExtension() || c.Char.IsClusterExtension() {
			continue
		}
		runes = append(runes, c.Char.Rune())
	}
	return string(runes)
}
