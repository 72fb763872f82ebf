package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// NewMeshBuffers uploads immutable vertex and index data.
func NewMeshBuffers[V any](ctx *Context, vertices []V, indices []uint16) (vertexBuf, indexBuf *wgpu.Buffer, err error) {
	vertexBuf, err = ctx.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Vertex Buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("vertex buffer: %w", err)
	}
	indexBuf, err = ctx.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Index Buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("index buffer: %w", err)
	}
	return vertexBuf, indexBuf, nil
}

// NewUniformBuffer creates a uniform buffer seeded with contents; the queue
// rewrites it wholesale every frame.
func NewUniformBuffer(ctx *Context, label string, contents []byte) (*wgpu.Buffer, error) {
	buf, err := ctx.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("uniform buffer (%s): %w", label, err)
	}
	return buf, nil
}

// NewUniformBindGroup binds the uniform buffer at group 0, binding 0 against
// the pipeline's own layout.
func NewUniformBindGroup(ctx *Context, pipeline *wgpu.RenderPipeline, buf *wgpu.Buffer) (*wgpu.BindGroup, error) {
	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	group, err := ctx.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("uniform bind group: %w", err)
	}
	return group, nil
}
