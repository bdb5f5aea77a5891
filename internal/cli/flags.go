package cli

import "github.com/spf13/pflag"

// anyChanged reports whether any of the named flags was set on the command
// line. An explicitly empty value counts as set.
func anyChanged(flags *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if flags.Changed(n) {
			return true
		}
	}
	return false
}
