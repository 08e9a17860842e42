package app

import "github.com/spf13/pflag"

// CliOptions is the contract between an options struct and the App
// bootstrap. Implementations register flags, fill defaults, and reject
// invalid combinations before the run function starts.
type CliOptions interface {
	// AddFlags registers the options on the command flagset.
	AddFlags(fs *pflag.FlagSet)
	// Complete fills in unset values with defaults.
	Complete() error
	// Validate checks the completed options.
	Validate() error
}
