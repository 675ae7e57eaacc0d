package ports

// DebugSink abstracts debug output for intermediate results.
// Each artifact is keyed by a tag (the sanitized banner title) so several
// compositions can be inspected side by side.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveRequestJSON saves the normalized banner request as JSON.
	SaveRequestJSON(tag string, data []byte) error

	// SaveOverlaySVG saves the gradient and text overlay markup.
	SaveOverlaySVG(tag string, data []byte) error

	// SaveBanner saves the final encoded PNG.
	SaveBanner(tag string, data []byte) error
}
