package dof

import "sort"

// componentGlobalIndexDict is the ordered dictionary backing a
// MeshComponentMap. Lines are held sorted by (Location, CompID). That single
// order serves both required views of the record set: exact (location,
// component) lookup, and location range scans whose ties resolve by ascending
// component id. Once built the dictionary is only ever relabeled in place,
// never reordered, so every query is a binary search over a stable slice.
type componentGlobalIndexDict struct {
	lines []Line
}

// find returns the position of the Line with the exact (loc, compID) key.
func (d *componentGlobalIndexDict) find(loc Location, compID int) (int, bool) {
	i := sort.Search(len(d.lines), func(i int) bool {
		return compareKey(d.lines[i], loc, compID) >= 0
	})
	if i < len(d.lines) && compareKey(d.lines[i], loc, compID) == 0 {
		return i, true
	}
	return i, false
}

// locationRange returns the half-open position range [lo, hi) of all Lines
// at loc, ordered by ascending component id.
func (d *componentGlobalIndexDict) locationRange(loc Location) (lo, hi int) {
	lo = sort.Search(len(d.lines), func(i int) bool {
		return d.lines[i].Loc.Compare(loc) >= 0
	})
	hi = lo + sort.Search(len(d.lines)-lo, func(i int) bool {
		return d.lines[lo+i].Loc.Compare(loc) > 0
	})
	return lo, hi
}

func (d *componentGlobalIndexDict) len() int {
	return len(d.lines)
}

// lineKey is the uniqueness key of the dictionary.
type lineKey struct {
	loc    Location
	compID int
}

// lineCollector accumulates Lines during map construction and subset
// extraction. The first Line inserted for a (location, component) pair wins;
// later duplicates are dropped. Collected lines are sorted into dictionary
// order once, which keeps an n-line build at O(n log n) instead of the
// O(n^2) of ordered insertion.
type lineCollector struct {
	lines []Line
	seen  map[lineKey]struct{}
}

func newLineCollector() *lineCollector {
	return &lineCollector{seen: make(map[lineKey]struct{})}
}

// add inserts ln unless its (location, component) pair is already present.
// Reports whether the line was inserted.
func (c *lineCollector) add(ln Line) bool {
	k := lineKey{ln.Loc, ln.CompID}
	if _, dup := c.seen[k]; dup {
		return false
	}
	c.seen[k] = struct{}{}
	c.lines = append(c.lines, ln)
	return true
}

// build sorts the collected lines into dictionary order and hands them off.
// The collector must not be reused afterwards.
func (c *lineCollector) build() componentGlobalIndexDict {
	sort.Slice(c.lines, func(i, j int) bool {
		a, b := c.lines[i], c.lines[j]
		if cc := a.Loc.Compare(b.Loc); cc != 0 {
			return cc < 0
		}
		return a.CompID < b.CompID
	})
	return componentGlobalIndexDict{lines: c.lines}
}
