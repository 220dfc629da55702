// Package settings loads the optional cargo-heaptrack settings file.
//
// The file is YAML and every key is optional:
//
//	# Cargo binary; defaults to $CARGO, then "cargo".
//	cargo: /home/me/.cargo/bin/cargo
//	# heaptrack binary; defaults to "heaptrack".
//	heaptrack: /opt/heaptrack/bin/heaptrack
//	# Extra heaptrack arguments, split like a shell would.
//	heaptrackArgs: --record-only
//
// Documents are validated against [Schema] before they are decoded, so
// misspelled keys are reported instead of silently ignored.
package settings
