// Package flagx holds the flag plumbing shared by the linkfolio server and
// linkctl configs. Each config parses only the flags it owns, so the arguments
// are filtered before they reach a flag.FlagSet.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// flagName strips the leading dashes so "-a", "--a" and "--a=x" compare equal.
func flagName(arg string) string {
	name, _, _ := strings.Cut(arg, "=")
	return strings.TrimLeft(name, "-")
}

// FilterArgs keeps the arguments naming one of the allowed flags, together
// with their values. Both "-f value" and "-f=value" are recognised, with one
// or two leading dashes. A value is taken from the next argument only when it
// does not itself look like a flag.
func FilterArgs(args []string, allowed ...string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
			continue
		}
		if _, ok := names[flagName(arg)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath returns the JSON config file named by -c or -config in args.
// When neither flag is present the environment variable envKey is consulted;
// an empty envKey disables that fallback. The last flag wins.
func ConfigPath(args []string, envKey string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, "-c", "-config"))

	if path == "" && envKey != "" {
		path = os.Getenv(envKey)
	}
	return path
}
