// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Build metadata, injected through -ldflags by the release pipeline.
// The defaults identify a from-source build.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
