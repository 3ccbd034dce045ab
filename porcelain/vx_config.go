package porcelain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/vexengine/VexEngine/utils"
	"github.com/vexengine/VexEngine/utils/types"
)

// Invoked from main.go. GetOrSetConfig handles the 'vex config' command over the INI file at .git/config.
func GetOrSetConfig(args []string) {

	// Define flagset
	fls := utils.CreateCommandFlagSet("config",
		"Get and set repo config options. Configuration keys are stored as <section>.<name> pairs in the INI file at .git/config.",
		"vex config (get <key> | set <key> <value>)")

	// Parse flags from args
	fls.Parse(args[1:])

	// Positional arguments (non-flag)
	pos := fls.Args()
	if len(pos) == 0 {
		fmt.Println("usage: vex config (get <key> | set <key> <value>)")
		os.Exit(1)
	}

	switch pos[0] {
	case "set":
		if len(pos) != 3 {
			fmt.Println("usage: vex config set <key> <value>")
			os.Exit(1)
		}
		if err := setConfig(pos[1], pos[2]); err != nil {
			fmt.Println("Error setting config:", err)
			os.Exit(1)
		}
	case "get":
		if len(pos) != 2 {
			fmt.Println("usage: vex config get <key>")
			os.Exit(1)
		}
		val, err := getConfig(pos[1])
		if err != nil {
			fmt.Println("Error getting config:", err)
			os.Exit(1)
		}
		fmt.Println(val)
	default:
		fmt.Println("unknown config command:", pos[0])
		fmt.Println("usage: vex config (get <key> | set <key> <value>)")
		os.Exit(1)
	}
}

// splitConfigKey splits "section.name" into its two halves.
func splitConfigKey(key string) (string, string, error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", "", errors.Errorf("invalid config key: %s", key)
	}
	return parts[0], parts[1], nil
}

// getConfig returns the value for a specific config key.
func getConfig(key string) (string, error) {
	cfgPath := filepath.Join(".git", "config")

	cfg, err := ini.Load(cfgPath)
	if err != nil {
		return "", errors.Wrap(err, "loading config")
	}

	section, name, err := splitConfigKey(key)
	if err != nil {
		return "", err
	}

	val := cfg.Section(section).Key(name).String()
	if val == "" {
		return "", errors.Errorf("config key not found: %s", key)
	}
	return val, nil
}

// setConfig sets the value for a specific config key.
func setConfig(key, value string) error {
	cfgPath := filepath.Join(".git", "config")

	cfg, err := ini.Load(cfgPath)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	section, name, err := splitConfigKey(key)
	if err != nil {
		return err
	}

	cfg.Section(section).Key(name).SetValue(value)
	return cfg.SaveTo(cfgPath)
}

// getAuthorInfo fetches the author information from .git/config.
func getAuthorInfo() (types.Author, error) {
	name, err := getConfig("user.name")
	if err != nil {
		return types.Author{}, err
	}
	email, err := getConfig("user.email")
	if err != nil {
		return types.Author{}, err
	}
	return types.Author{Name: name, Email: email}, nil
}
