package geometry

import "slices"

// JoinVertices welds face corners whose records are equivalent. Corners
// are sorted with order and scanned; a new class starts wherever two
// neighbours fail equiv, and each class maps to the vertex index of its
// first sorted member. PositionIndices of every face are rewritten through
// the resulting map, which is also returned (identity for vertices no face
// uses).
func JoinVertices(faces []Face, data []byte, stride, vertexCount uint32, order VertexOrdering, equiv VertexEquivalence) []uint32 {
	mergeMap := make([]uint32, vertexCount)
	for i := range mergeMap {
		mergeMap[i] = uint32(i)
	}
	if len(faces) == 0 {
		return mergeMap
	}

	corners := make([]Vertex, 0, len(faces)*3)
	for f := range faces {
		for _, idx := range faces[f].AttributeIndices {
			corners = append(corners, Vertex{Index: idx, Attributes: record(data, stride, idx)})
		}
	}

	slices.SortStableFunc(corners, func(a, b Vertex) int {
		return order(a.Attributes, b.Attributes)
	})

	first := 0
	for i := range corners {
		if i > 0 && !equiv(corners[i-1].Attributes, corners[i].Attributes) {
			first = i
		}
		mergeMap[corners[i].Index] = corners[first].Index
	}

	for f := range faces {
		for k, idx := range faces[f].AttributeIndices {
			faces[f].PositionIndices[k] = mergeMap[idx]
		}
	}
	return mergeMap
}
