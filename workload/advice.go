package workload

import (
	"fmt"
	"strings"
)

// Advice explains how to enable debug symbols for a cargo profile.
type Advice struct {
	Profile string
}

// EnvVar returns the environment variable that enables debuginfo for the
// profile, e.g. CARGO_PROFILE_RELEASE_DEBUG.
func (a Advice) EnvVar() string {
	name := strings.ToUpper(strings.ReplaceAll(a.Profile, "-", "_"))

	return "CARGO_PROFILE_" + name + "_DEBUG"
}

// String renders the full warning, including the manifest lines and the
// environment variable alternative.
func (a Advice) String() string {
	var sb strings.Builder

	sb.WriteString("WARNING: profiling without debuginfo. ")
	sb.WriteString("Enable symbol information by adding the following lines to Cargo.toml:\n\n")
	fmt.Fprintf(&sb, "[profile.%s]\n", a.Profile)
	sb.WriteString("debug = true\n\n")
	sb.WriteString("Or set this environment variable:\n\n")
	fmt.Fprintf(&sb, "%s=true\n", a.EnvVar())

	return sb.String()
}
