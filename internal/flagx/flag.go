// Package flagx lets several components parse their own flags from the same
// os.Args without tripping over each other's unknown flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags listed in allowed, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a token that
// starts with "-" is never taken as a value.
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		known[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if _, ok := known[name]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := known[arg]; !ok {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigFileFlag returns the JSON config path given with -c or -config, or
// "" when neither is present. The last occurrence wins.
func ConfigFileFlag() string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	return path
}
