// Package version reports build information for seqkit binaries.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/seqkit/version.Version=1.0.0" ./cmd/seqeval
//
// Unset values fall back to the VCS stamps in the binary's build info.
package version
