package geometry

import "github.com/go-gl/mathgl/mgl32"

// Adjacency lists, for every position vertex, the faces that use it.
// Lists are stored back to back; offsets[v]..offsets[v+1] spans vertex v.
type Adjacency struct {
	offsets []uint32
	faces   []uint32
}

// BuildAdjacency collects incident faces per position index, each list in
// face order. A face naming the same position twice appears twice.
func BuildAdjacency(faces []Face, vertexCount uint32) *Adjacency {
	adj := &Adjacency{
		offsets: make([]uint32, vertexCount+1),
		faces:   make([]uint32, len(faces)*3),
	}

	for f := range faces {
		for _, v := range faces[f].PositionIndices {
			adj.offsets[v+1]++
		}
	}
	for v := uint32(1); v <= vertexCount; v++ {
		adj.offsets[v] += adj.offsets[v-1]
	}

	fill := make([]uint32, vertexCount)
	copy(fill, adj.offsets[:vertexCount])
	for f := range faces {
		for _, v := range faces[f].PositionIndices {
			adj.faces[fill[v]] = uint32(f)
			fill[v]++
		}
	}
	return adj
}

// Faces returns the faces incident to position vertex v.
func (a *Adjacency) Faces(v uint32) []uint32 {
	return a.faces[a.offsets[v]:a.offsets[v+1]]
}

// averageFaceVectors sums the vectors of the faces incident to a corner of
// face this, keeping those within the smoothing cone (dot > cosThreshold)
// and always the face itself. A zero sum yields +X.
func averageFaceVectors(faces []Face, this uint32, incident []uint32, cosThreshold float32) mgl32.Vec3 {
	ref := faces[this].Normal

	var sum mgl32.Vec3
	for _, f := range incident {
		n := faces[f].Normal
		if f == this || ref.Dot(n) > cosThreshold {
			sum = sum.Add(n)
		}
	}

	if sum.LenSqr() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	return sum.Normalize()
}
