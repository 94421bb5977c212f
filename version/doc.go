// Package version reports build information for the augment binary.
//
// Values are stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/augment/version.Version=1.2.0 \
//	    -X github.com/kbukum/augment/version.Commit=$(git rev-parse --short HEAD)"
//
// Anything left unset falls back to the module's embedded VCS settings.
package version
