package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	dupefind "dupefind/pkg"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	// Handle help and version early
	if os.Args[1] == "--help" || os.Args[1] == "-h" || os.Args[1] == "help" {
		showHelp()
		return
	}

	if os.Args[1] == "--version" {
		fmt.Printf("dupefind %s\n", version)
		return
	}

	args, err := parseArguments(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupefind: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfiguration(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupefind: %v\n", err)
		os.Exit(1)
	}

	verboseCfg := cfg.GetVerboseConfig()
	dupefind.SetVerboseLevel(verboseCfg.Level)
	dupefind.InitDebugFlags(verboseCfg.Debug)

	if err := validateConfiguration(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "dupefind: %v\n", err)
		os.Exit(1)
	}

	console := dupefind.NewConsole(os.Stdin, os.Stdout)
	console.ClearScreen = isTerminal(os.Stdout)

	err = dupefind.Run(dupefind.Options{
		Root:    args.Root,
		Config:  cfg,
		Console: console,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupefind: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Fprintf(os.Stderr, "Usage: dupefind [options] <directory>\n")
	fmt.Fprintf(os.Stderr, "Try 'dupefind --help' for more information.\n")
}

func showHelp() {
	fmt.Printf("dupefind - find and interactively remove duplicate files\n\n")
	fmt.Printf("Usage: dupefind [options] <directory>\n\n")

	fmt.Printf("OPTIONS:\n")
	fmt.Printf("  --config PATH     Configuration file (default: ~/.config/dupefind/config)\n")
	fmt.Printf("  --set KEY:VALUE   Override a configuration key (repeatable)\n")
	fmt.Printf("  --verbose N       Verbose level 0-3\n")
	fmt.Printf("  --debug FLAGS     Comma-separated debug flags (walk,group)\n")
	fmt.Printf("  --help            Show this help\n")
	fmt.Printf("  --version         Show version\n\n")

	fmt.Printf("CONFIGURATION KEYS (for --set):\n")
	fmt.Printf("  algorithm         Fingerprint algorithm: md5, sha1, sha256 (default md5)\n")
	fmt.Printf("  fast_reject       First-block reject pass before full hashing (default true)\n")
	fmt.Printf("  min_size          Skip files below this size, e.g. 4k or 2M (default 0)\n")
	fmt.Printf("  exclude           Comma-separated regex patterns for paths to skip\n")
	fmt.Printf("  hash_workers      Concurrent fingerprint workers (default 4)\n\n")

	fmt.Printf("For every set of byte-identical files found, dupefind lists the members\n")
	fmt.Printf("with zero-based indices and reads one line of whitespace-separated indices\n")
	fmt.Printf("to delete from that set. An empty line keeps every member. A malformed or\n")
	fmt.Printf("out-of-range index abandons the whole selection for that set.\n\n")

	fmt.Printf("EXAMPLES:\n")
	fmt.Printf("  dupefind ~/photos\n")
	fmt.Printf("  dupefind --set algorithm:sha256 --set min_size:4096 /srv/share\n")
	fmt.Printf("  dupefind --set exclude:'\\.git/.*,node_modules/.*' .\n")
}

// arguments represents parsed command line arguments
type arguments struct {
	Root       string
	ConfigPath string
	Overrides  []string
}

func parseArguments(args []string) (*arguments, error) {
	result := &arguments{}

	i := 0
	for i < len(args) {
		switch args[i] {
		case "--config":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--config requires a path argument")
			}
			result.ConfigPath = args[i+1]
			i += 2
		case "--set":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--set requires a key:value argument")
			}
			result.Overrides = append(result.Overrides, args[i+1])
			i += 2
		case "--verbose":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--verbose requires a level argument")
			}
			result.Overrides = append(result.Overrides, "level:"+args[i+1])
			i += 2
		case "--debug":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--debug requires a flags argument")
			}
			result.Overrides = append(result.Overrides, "debug:"+args[i+1])
			i += 2
		default:
			if len(args[i]) >= 2 && args[i][:2] == "--" {
				return nil, fmt.Errorf("unknown option: %s", args[i])
			}
			if result.Root != "" {
				return nil, fmt.Errorf("unexpected argument: %s (directory already given as %s)", args[i], result.Root)
			}
			result.Root = args[i]
			i++
		}
	}

	if result.Root == "" {
		return nil, fmt.Errorf("missing <directory> argument")
	}

	return result, nil
}

func loadConfiguration(args *arguments) (*dupefind.Config, error) {
	configPath := args.ConfigPath
	if configPath == "" {
		var err error
		configPath, err = dupefind.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := dupefind.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyOverrides(args.Overrides); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfiguration(cfg *dupefind.Config) error {
	if err := dupefind.ValidateFingerprintAlgorithm(cfg.GetFingerprintConfig().Algorithm); err != nil {
		return err
	}
	if err := dupefind.ValidateVerboseLevel(cfg.GetVerboseConfig().Level); err != nil {
		return err
	}
	return dupefind.ValidateHashWorkers(cfg.GetPerformanceConfig().HashWorkers)
}

// isTerminal reports whether f is attached to a terminal, which decides
// whether the clear-screen control is issued before the first set.
func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}
