// Package version exposes the toolkit's build information.
//
// Version, commit, and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/invokit/version.Version=1.0.0"
//
// When ldflags are absent the values fall back to the VCS stamps the Go
// toolchain embeds in the binary.
package version
