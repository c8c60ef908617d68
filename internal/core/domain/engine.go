package domain

// Engine is an external analysis-engine binary registered under a stable ID.
// BinaryLocation is an opaque filesystem path; the store never validates it.
type Engine struct {
	ID             string
	BinaryLocation string
}

// EngineSource describes where an engine binary should be installed from.
type EngineSource struct {
	// ID is the engine identifier the binary will be registered under.
	ID string

	// Path is the local binary to copy into the engines directory.
	Path string
}
