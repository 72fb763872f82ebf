package core

// Vertex matches the layout consumed by cube.wgsl. The tags drive the
// reflected vertex buffer layout in package gpu.
type Vertex struct {
	Position [3]float32 `gpu:"layout" format:"float3" location:"0"`
	Color    [3]float32 `gpu:"layout" format:"float3" location:"1"`
}

// CubeVertices returns the 8 unique cube corners with per-corner colors.
func CubeVertices() []Vertex {
	return []Vertex{
		// front face (z = +1)
		{Position: [3]float32{-1, -1, 1}, Color: [3]float32{1, 0, 0}},
		{Position: [3]float32{1, -1, 1}, Color: [3]float32{0, 1, 0}},
		{Position: [3]float32{1, 1, 1}, Color: [3]float32{0, 0, 1}},
		{Position: [3]float32{-1, 1, 1}, Color: [3]float32{1, 1, 0}},
		// back face (z = -1)
		{Position: [3]float32{-1, -1, -1}, Color: [3]float32{1, 0, 1}},
		{Position: [3]float32{-1, 1, -1}, Color: [3]float32{0, 1, 1}},
		{Position: [3]float32{1, 1, -1}, Color: [3]float32{1, 1, 1}},
		{Position: [3]float32{1, -1, -1}, Color: [3]float32{0.5, 0.5, 0.5}},
	}
}

// CubeIndices returns 36 indices, two CCW triangles per face so back-face
// culling hides the far side without a depth buffer.
func CubeIndices() []uint16 {
	return []uint16{
		0, 1, 2, 2, 3, 0, // front
		4, 5, 6, 6, 7, 4, // back
		0, 4, 7, 7, 1, 0, // bottom
		2, 6, 5, 5, 3, 2, // top
		0, 3, 5, 5, 4, 0, // left
		1, 7, 6, 6, 2, 1, // right
	}
}
