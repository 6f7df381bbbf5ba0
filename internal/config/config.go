package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a-wai/git-buildpackage/internal/output"
)

// Setting keys. They double as gbp.conf option names and flag names.
const (
	KeyPatchNumbers = "patch-numbers"
	KeyTimeMachine  = "time-machine"
	KeyColor        = "color"
	KeyVerbose      = "verbose"
	KeyLogFile      = "log-file"
	KeyTopic        = "topic"
	KeyForce        = "force"
)

// EnvPrefix prefixes the environment variables that override settings,
// e.g. GBP_PQ_TIME_MACHINE
const EnvPrefix = "GBP_PQ"

// ConfFilesEnv overrides the list of configuration files, colon separated
const ConfFilesEnv = "GBP_CONF_FILES"

// sections are read in this order; later sections win
var sections = []string{"DEFAULT", "pq", "gbp-pq"}

// Config holds the settings of one invocation
type Config struct {
	PatchNumbers bool
	TimeMachine  int
	Color        output.ColorMode
	Verbose      bool
	LogFile      string
	Topic        string
	Force        bool

	// Files lists the configuration files that were read
	Files []string
	// Warnings collects problems with configuration files that were skipped
	Warnings []string
}

// Options tells Load where to look
type Options struct {
	// Fs is used to read configuration files; defaults to the OS filesystem
	Fs afero.Fs
	// RepoRoot adds the repository's .gbp.conf and debian/gbp.conf
	RepoRoot string
	// Home is the user's home directory; defaults to os.UserHomeDir
	Home string
	// Flags are bound on top of every other source
	Flags *pflag.FlagSet
}

// DefaultFiles returns the configuration files git-buildpackage reads, in
// increasing order of precedence
func DefaultFiles(home, repoRoot string) []string {
	files := []string{"/etc/git-buildpackage/gbp.conf"}
	if home != "" {
		files = append(files, filepath.Join(home, ".gbp.conf"))
	}
	if repoRoot != "" {
		files = append(files,
			filepath.Join(repoRoot, ".gbp.conf"),
			filepath.Join(repoRoot, "debian", "gbp.conf"))
	}
	return files
}

// Load resolves the settings
func Load(opts Options) (*Config, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Home == "" {
		opts.Home, _ = os.UserHomeDir()
	}

	v := viper.New()
	v.SetDefault(KeyPatchNumbers, true)
	v.SetDefault(KeyTimeMachine, 1)
	v.SetDefault(KeyColor, string(output.ColorAuto))
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTopic, "")
	v.SetDefault(KeyForce, false)

	cfg := &Config{}

	files := DefaultFiles(opts.Home, opts.RepoRoot)
	if env := os.Getenv(ConfFilesEnv); env != "" {
		files = filepath.SplitList(env)
	}
	for _, file := range files {
		values, err := readConfFile(opts.Fs, file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			cfg.Warnings = append(cfg.Warnings, err.Error())
			continue
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", file, err)
		}
		cfg.Files = append(cfg.Files, file)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		if err := v.BindPFlags(opts.Flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var err error
	if cfg.PatchNumbers, err = getBool(v, KeyPatchNumbers); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = getBool(v, KeyVerbose); err != nil {
		return nil, err
	}
	if cfg.Force, err = getBool(v, KeyForce); err != nil {
		return nil, err
	}
	if cfg.TimeMachine, err = strconv.Atoi(strings.TrimSpace(v.GetString(KeyTimeMachine))); err != nil {
		return nil, fmt.Errorf("invalid %s value %q: must be a number", KeyTimeMachine, v.GetString(KeyTimeMachine))
	}
	if cfg.Color, err = output.ParseColorMode(v.GetString(KeyColor)); err != nil {
		return nil, err
	}
	cfg.LogFile = v.GetString(KeyLogFile)
	cfg.Topic = v.GetString(KeyTopic)

	return cfg, nil
}

// readConfFile reads the gbp-pq relevant sections of an INI style gbp.conf
// into a flat key/value map
func readConfFile(afs afero.Fs, path string) (map[string]interface{}, error) {
	f, err := afs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw := gitconfig.New()
	if err := gitconfig.NewDecoder(f).Decode(raw); err != nil {
		return nil, fmt.Errorf("skipping %s: %w", path, err)
	}

	values := map[string]interface{}{}
	for _, name := range sections {
		if !raw.HasSection(name) {
			continue
		}
		for _, opt := range raw.Section(name).Options {
			values[strings.ToLower(opt.Key)] = opt.Value
		}
	}
	return values, nil
}

// ParseBool accepts the boolean spellings git-buildpackage accepts
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

func getBool(v *viper.Viper, key string) (bool, error) {
	b, err := ParseBool(v.GetString(key))
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return b, nil
}
