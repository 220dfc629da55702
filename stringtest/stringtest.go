// Package stringtest builds expected multi-line output in tests.
package stringtest

import "strings"

// JoinLF joins lines with LF endings, the way cargo writes its message
// stream and the way warnings are printed.
//
//	want := stringtest.JoinLF(
//		"[profile.release]",
//		"debug = true",
//	) // -> "[profile.release]\ndebug = true"
func JoinLF(lines ...string) string {
	return strings.Join(lines, "\n")
}

// JoinCRLF joins lines with CRLF endings, as cargo does on Windows. A trailing
// empty line yields a terminating CRLF.
func JoinCRLF(lines ...string) string {
	return strings.Join(lines, "\r\n")
}
