// Package wgpu provides a GPU-backed swap chain over the wgpu HAL.
//
// Drawables carry a CPU staging image that render passes draw into; Present
// uploads the staging pixels to a source texture and blits them onto the
// chain's target texture with a fullscreen-triangle render pass. The target
// texture is the chain's native layer handle.
//
// Importing this package registers the "wgpu" backend with the swapchain
// registry at priority 100. It is selected automatically by swapchain.New
// when a Vulkan-capable adapter is present.
package wgpu
