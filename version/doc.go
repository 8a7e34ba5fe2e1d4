// Package version provides build-time version information for the
// herosearch binary.
//
// # Version Variables
//
// These variables are set at build time using ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/herosearch/version.Version=1.2.3 \
//	  -X github.com/ncobase/herosearch/version.Branch=main \
//	  -X github.com/ncobase/herosearch/version.Revision=abc123 \
//	  -X 'github.com/ncobase/herosearch/version.BuiltAt=$(date)'" ./cmd/herosearch
//
// Values left unset are filled from the VCS stamp the Go toolchain embeds
// in the binary, when present.
//
// # Retrieving Version Info
//
//	info := version.GetVersionInfo()
//	fmt.Println(info.String())
//
//	s, _ := info.JSON()
package version
