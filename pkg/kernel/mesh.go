package kernel

// Mesh is a triangle mesh produced from a solid. All arrays are flat:
// Vertices holds 3 floats per vertex (x,y,z), Normals 3 floats per
// vertex, Indices 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"` // which part this mesh came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the three vertices of triangle i, each as x,y,z.
func (m *Mesh) Triangle(i int) [3][3]float32 {
	var tri [3][3]float32
	for j := 0; j < 3; j++ {
		v := m.Indices[i*3+j]
		tri[j][0] = m.Vertices[v*3]
		tri[j][1] = m.Vertices[v*3+1]
		tri[j][2] = m.Vertices[v*3+2]
	}
	return tri
}

// TriangleNormal returns the stored normal of triangle i, taken from
// its first vertex (normals are per-face in kernel output).
func (m *Mesh) TriangleNormal(i int) [3]float32 {
	v := m.Indices[i*3]
	return [3]float32{m.Normals[v*3], m.Normals[v*3+1], m.Normals[v*3+2]}
}
