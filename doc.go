// Package cartoonify turns photographs into cartoon-style images.
//
// # Overview
//
// The pipeline runs four stages over each photo:
//
//  1. Gaussian blur (5x5 kernel) to suppress sensor noise
//  2. Sobel edge detection over the blurred image, producing a
//     black-on-white edge mask
//  3. Colour quantization of the original photo, reducing each channel
//     to a small number of discrete values
//  4. Merge: quantized pixels show through everywhere the mask is white,
//     edge pixels stay black
//
// # Quick Start
//
//	cfg := cartoonify.NewConfig()
//	p := cartoonify.NewPipeline(cfg)
//	result, err := p.ProcessPhoto("holiday.png")
//
// # Backends
//
// Two backends implement the pipeline with identical pixel-level results:
// a sequential reference backend running on the host, and an accelerator
// backend that dispatches the stages as GPU compute kernels. Select with
// [Config.UseAccelerator]. The accelerator never falls back to the host;
// if no usable device is present the photo fails and the next one is
// attempted.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Config, Pipeline, Backend
//   - internal/pixel: packed-pixel buffers and the image stack
//   - internal/transform: the host implementations of the four stages
//   - internal/accel: the GPU compute backend (gogpu/wgpu HAL)
//   - internal/codec: image file decode/encode
package cartoonify
