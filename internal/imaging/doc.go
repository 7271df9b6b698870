// Package imaging provides image loading and shared pixel-level helpers
// for the crowd analysis server.
//
// It owns the process-wide decoded-image cache and the crop/encode
// helpers the model clients use to ship image regions to the inference
// service. All coordinates are 0-based with (0,0) at the top-left;
// region corners are inclusive at (x1,y1) and exclusive at (x2,y2).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and may be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for files that cannot be opened or decoded,
// regions that degenerate to zero area, and encoding failures.
package imaging
