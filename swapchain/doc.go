// Package swapchain defines the drawable pool that camview presents into.
//
// A SwapChain owns a small fixed set of Drawables and hands them out one at a
// time: NextDrawable blocks while every drawable is in flight, which is what
// bounds the acquisition loop's wait to the chain's buffering depth. A
// presented or discarded drawable returns to the pool.
//
// Backends register themselves with Register; New selects the
// highest-priority available backend. The built-in software chain renders to
// CPU memory and is always available; swapchain/wgpu registers a GPU chain
// when a usable adapter exists.
package swapchain
