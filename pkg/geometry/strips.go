package geometry

import (
	"fmt"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

// MaxStripVertices bounds the vertex count of meshes handed to a
// Stripifier; strip indices are 16 bit.
const MaxStripVertices = 0x10000

// DefaultVertexCacheSize is the vertex cache size used when none is set.
const DefaultVertexCacheSize = 16

// StripGroup is one primitive group produced by a Stripifier.
type StripGroup struct {
	Prim    cmod.PrimitiveGroupType
	Indices []uint16
}

// Stripifier turns a triangle list into strips. The returned groups must
// decompose into the same triangles, with the same winding, as the input.
type Stripifier interface {
	Stripify(indices []uint16) ([]StripGroup, error)
}

// GreedyStripifier grows strips along shared edges. A new strip starts,
// when possible, from a triangle touching a vertex still in a FIFO cache of
// CacheSize entries. Triangles left on their own, and degenerate ones, are
// returned in a trailing triangle list.
type GreedyStripifier struct {
	CacheSize int
}

type stripState struct {
	tris     [][3]uint16
	used     []bool
	trial    []int
	byEdge   map[uint32][]int
	byVertex map[uint16][]int
	cache    []uint16
	cacheMax int
	cursor   int
}

func edgeKey(a, b uint16) uint32 {
	return uint32(a)<<16 | uint32(b)
}

// Stripify implements Stripifier.
func (g GreedyStripifier) Stripify(indices []uint16) ([]StripGroup, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: triangle list with %d indices", ErrInvalidTopology, len(indices))
	}

	cacheSize := g.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultVertexCacheSize
	}

	n := len(indices) / 3
	st := &stripState{
		tris:     make([][3]uint16, n),
		used:     make([]bool, n),
		trial:    make([]int, n),
		byEdge:   make(map[uint32][]int, n*3),
		byVertex: make(map[uint16][]int),
		cacheMax: cacheSize,
	}

	var rest []uint16
	for t := range st.tris {
		a, b, c := indices[t*3], indices[t*3+1], indices[t*3+2]
		st.tris[t] = [3]uint16{a, b, c}
		if a == b || b == c || c == a {
			st.used[t] = true
			rest = append(rest, a, b, c)
			continue
		}
		st.byEdge[edgeKey(a, b)] = append(st.byEdge[edgeKey(a, b)], t)
		st.byEdge[edgeKey(b, c)] = append(st.byEdge[edgeKey(b, c)], t)
		st.byEdge[edgeKey(c, a)] = append(st.byEdge[edgeKey(c, a)], t)
		for _, v := range st.tris[t] {
			st.byVertex[v] = append(st.byVertex[v], t)
		}
	}

	var groups []StripGroup
	trialID := 0
	for {
		start := st.nextStart()
		if start < 0 {
			break
		}

		// Pick the rotation of the start triangle giving the longest strip.
		best, bestLen := 0, -1
		for rot := 0; rot < 3; rot++ {
			trialID++
			if l := len(st.grow(start, rot, trialID, false)); l > bestLen {
				best, bestLen = rot, l
			}
		}
		strip := st.grow(start, best, 0, true)
		for _, v := range strip {
			st.touch(v)
		}

		if len(strip) == 3 {
			rest = append(rest, strip...)
			continue
		}
		groups = append(groups, StripGroup{Prim: cmod.TriStrip, Indices: strip})
	}

	if len(rest) > 0 {
		groups = append(groups, StripGroup{Prim: cmod.TriList, Indices: rest})
	}
	return groups, nil
}

// grow builds the strip starting at triangle start rotated by rot. Without
// commit it only marks triangles with the trial id.
func (st *stripState) grow(start, rot, trialID int, commit bool) []uint16 {
	t := st.tris[start]
	strip := []uint16{t[rot], t[(rot+1)%3], t[(rot+2)%3]}
	st.take(start, trialID, commit)

	for j := 3; ; j++ {
		var key uint32
		if j%2 == 0 {
			key = edgeKey(strip[j-2], strip[j-1])
		} else {
			key = edgeKey(strip[j-1], strip[j-2])
		}
		next := -1
		for _, cand := range st.byEdge[key] {
			if st.available(cand, trialID, commit) {
				next = cand
				break
			}
		}
		if next < 0 {
			return strip
		}
		st.take(next, trialID, commit)
		strip = append(strip, thirdVertex(st.tris[next], strip[j-2], strip[j-1]))
	}
}

func (st *stripState) available(t, trialID int, commit bool) bool {
	if st.used[t] {
		return false
	}
	return commit || st.trial[t] != trialID
}

func (st *stripState) take(t, trialID int, commit bool) {
	if commit {
		st.used[t] = true
	} else {
		st.trial[t] = trialID
	}
}

func thirdVertex(t [3]uint16, a, b uint16) uint16 {
	for _, v := range t {
		if v != a && v != b {
			return v
		}
	}
	panic("geometry: strip triangle has no third vertex")
}

// nextStart returns an unused triangle touching a cached vertex, newest
// first, or else the first unused triangle. It returns -1 when none is
// left.
func (st *stripState) nextStart() int {
	for i := len(st.cache) - 1; i >= 0; i-- {
		for _, t := range st.byVertex[st.cache[i]] {
			if !st.used[t] {
				return t
			}
		}
	}
	for ; st.cursor < len(st.used); st.cursor++ {
		if !st.used[st.cursor] {
			return st.cursor
		}
	}
	return -1
}

// touch records a vertex reference in the FIFO cache.
func (st *stripState) touch(v uint16) {
	for _, c := range st.cache {
		if c == v {
			return
		}
	}
	if len(st.cache) == st.cacheMax {
		st.cache = st.cache[1:]
	}
	st.cache = append(st.cache, v)
}

// ConvertToStrips replaces the triangle list groups of mesh with the groups
// s produces, keeping each group's material. Meshes with too many vertices
// for 16-bit indices or with any group that is not a triangle list are left
// alone and false is returned. The mesh is only modified when every group
// converts.
func ConvertToStrips(mesh *cmod.Mesh, s Stripifier) (bool, error) {
	if mesh.VertexCount() >= MaxStripVertices {
		return false, nil
	}
	for _, g := range mesh.Groups() {
		if g.Prim != cmod.TriList {
			return false, nil
		}
	}

	var converted []cmod.PrimitiveGroup
	for i, g := range mesh.Groups() {
		in := make([]uint16, len(g.Indices))
		for k, idx := range g.Indices {
			in[k] = uint16(idx)
		}
		strips, err := s.Stripify(in)
		if err != nil {
			return false, fmt.Errorf("group %d: %w", i, err)
		}
		for _, sg := range strips {
			out := make([]uint32, len(sg.Indices))
			for k, idx := range sg.Indices {
				out[k] = uint32(idx)
			}
			converted = append(converted, cmod.PrimitiveGroup{
				Prim:          sg.Prim,
				MaterialIndex: g.MaterialIndex,
				Indices:       out,
			})
		}
	}

	mesh.ClearGroups()
	for _, g := range converted {
		mesh.AddGroup(g.Prim, g.MaterialIndex, g.Indices)
	}
	return true, nil
}
