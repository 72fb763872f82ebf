package app

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/cubeview/core"
	"github.com/gekko3d/cubeview/gpu"
	"github.com/gekko3d/cubeview/shaders"
)

// overlay draws debug text (the FPS readout) on top of the cube, inside the
// same render pass. The glyph atlas comes from the built-in bitmap font so
// the overlay needs no assets.
type overlay struct {
	text *core.TextRenderer

	pipeline  *wgpu.RenderPipeline
	atlasView *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup

	vertexBuffer *wgpu.Buffer
	vertexCount  uint32
}

func newOverlay(ctx *gpu.Context) (*overlay, error) {
	o := &overlay{text: core.NewTextRenderer()}

	device := ctx.Device()
	atlas := o.text.AtlasImage
	w := atlas.Bounds().Dx()
	h := atlas.Bounds().Dy()

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("text atlas texture: %w", err)
	}
	defer tex.Release()

	err = ctx.Queue().WriteTexture(tex.AsImageCopy(), atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(atlas.Stride),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})
	if err != nil {
		return nil, fmt.Errorf("text atlas upload: %w", err)
	}

	o.atlasView, err = tex.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("text atlas view: %w", err)
	}

	o.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeNearest,
		MagFilter:     wgpu.FilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("text sampler: %w", err)
	}

	textMod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("text shader compile: %w", err)
	}
	defer textMod.Release()

	o.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     textMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     textMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: ctx.SurfaceFormat(),
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("text pipeline build: %w", err)
	}

	layout := o.pipeline.GetBindGroupLayout(0)
	defer layout.Release()
	o.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: o.atlasView},
			{Binding: 1, Sampler: o.sampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("text bind group: %w", err)
	}

	return o, nil
}

// update rebuilds the overlay vertex buffer for this frame's text items,
// growing the buffer when the text gets longer. vertexCount only reflects
// vertices that actually reached the buffer, so a failed write can never
// draw stale contents.
func (o *overlay) update(ctx *gpu.Context, items []core.TextItem, width, height int) error {
	o.vertexCount = 0
	vertices := o.text.BuildVertices(items, width, height)
	if len(vertices) == 0 {
		return nil
	}

	data := wgpu.ToBytes(vertices)
	size := uint64(len(data))
	if o.vertexBuffer == nil || o.vertexBuffer.GetSize() < size {
		if o.vertexBuffer != nil {
			o.vertexBuffer.Release()
		}
		buf, err := ctx.Device().CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Text Vertex Buffer",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("text vertex buffer: %w", err)
		}
		o.vertexBuffer = buf
	}
	if err := ctx.Queue().WriteBuffer(o.vertexBuffer, 0, data); err != nil {
		return fmt.Errorf("text vertex upload: %w", err)
	}
	o.vertexCount = uint32(len(vertices))
	return nil
}

func (o *overlay) draw(pass *wgpu.RenderPassEncoder) {
	if o.vertexCount == 0 || o.vertexBuffer == nil {
		return
	}
	pass.SetPipeline(o.pipeline)
	pass.SetBindGroup(0, o.bindGroup, nil)
	pass.SetVertexBuffer(0, o.vertexBuffer, 0, o.vertexBuffer.GetSize())
	pass.Draw(o.vertexCount, 1, 0, 0)
}

func (o *overlay) release() {
	if o.vertexBuffer != nil {
		o.vertexBuffer.Release()
	}
	if o.bindGroup != nil {
		o.bindGroup.Release()
	}
	if o.pipeline != nil {
		o.pipeline.Release()
	}
	if o.sampler != nil {
		o.sampler.Release()
	}
	if o.atlasView != nil {
		o.atlasView.Release()
	}
}
