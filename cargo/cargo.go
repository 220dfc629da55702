package cargo

import (
	"errors"
	"log/slog"

	"go.jacobcolvin.com/cargo-heaptrack/process"
)

// Sentinel errors returned by this package.
var (
	ErrMetadataUnavailable  = errors.New("failed to access crate metadata")
	ErrNoMatchingPackage    = errors.New("no matching package")
	ErrUnknownPackage       = errors.New("unknown package")
	ErrManifestNotFound     = errors.New("manifest not found")
	ErrInvalidManifestPath  = errors.New("invalid manifest path")
	ErrConflictingSelection = errors.New("conflicting target selection")
	ErrInvalidRequest       = errors.New("invalid build request")
	ErrBuildFailed          = errors.New("cargo build failed")
	ErrBuildOutputParse     = errors.New("failed to parse cargo build output")
	ErrNoExecutableProduced = errors.New("build artifacts do not contain any executable to profile")
)

// ManifestName is the file name of a cargo manifest.
const ManifestName = "Cargo.toml"

// DefaultBinary is the cargo executable used when nothing else is configured.
const DefaultBinary = "cargo"

// Client runs cargo subcommands through a [process.Runner].
//
// Create instances with [NewClient].
type Client struct {
	runner process.Runner
	logger *slog.Logger
	binary string
}

// Option configures a [Client].
type Option func(*Client)

// WithBinary sets the cargo executable. Empty values are ignored.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithLogger sets the logger used to report the commands being run.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a [Client] that runs cargo through r.
func NewClient(r process.Runner, opts ...Option) *Client {
	c := &Client{
		runner: r,
		binary: DefaultBinary,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Binary returns the cargo executable this client runs.
func (c *Client) Binary() string {
	return c.binary
}
