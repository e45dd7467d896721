// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"math/bits"

	"github.com/gogpu/atlas"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// TextureFormat is the format of every page texture.
const TextureFormat = gputypes.TextureFormatRGBA8Unorm

// Surface is the handle returned by CreateSurface: one page texture with
// its default view and a sampler matching the page sampling mode.
type Surface struct {
	Texture hal.Texture
	View    hal.TextureView
	Sampler hal.Sampler

	Size      atlas.Size
	Sampling  atlas.SamplingMode
	MipLevels uint32
	Label     string
}

// mipLevelCount returns the length of a full mip chain for w x h.
func mipLevelCount(w, h int) uint32 {
	return uint32(bits.Len(uint(max(w, h))))
}

func textureDescriptor(desc atlas.SurfaceDescriptor, mips uint32) *hal.TextureDescriptor {
	return &hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Size.W),
			Height:             uint32(desc.Size.H),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: mips,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        TextureFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

func viewDescriptor(desc atlas.SurfaceDescriptor, mips uint32) *hal.TextureViewDescriptor {
	return &hal.TextureViewDescriptor{
		Label:           desc.Label + "_view",
		Format:          TextureFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    0,
		MipLevelCount:   mips,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
	}
}

func samplerDescriptor(desc atlas.SurfaceDescriptor, mips uint32) *hal.SamplerDescriptor {
	filter := desc.Sampling.FilterMode()
	mipFilter := gputypes.FilterModeNearest
	if desc.Sampling.Mipmapped() {
		mipFilter = gputypes.FilterModeLinear
	}
	return &hal.SamplerDescriptor{
		Label:        desc.Label + "_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: mipFilter,
		LodMinClamp:  0,
		LodMaxClamp:  float32(mips),
		Anisotropy:   1,
	}
}
