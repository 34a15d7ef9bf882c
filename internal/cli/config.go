package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/otsimple/otlresolve/runtime/protect"
	"github.com/otsimple/otlresolve/runtime/resolver"
)

// Config is the resolver configuration of one invocation. Values come from
// the defaults, then the YAML file given with --config, then flags that were
// set explicitly.
type Config struct {
	Indexes             []string `yaml:"indexes"`
	TWS                 int64    `yaml:"tws"`
	TWF                 int64    `yaml:"twf"`
	NoSubsearchCommands commandList `yaml:"no_subsearch_commands"`
	MacrosDir           string   `yaml:"macros_dir"`
	CatalogDir          string   `yaml:"catalog_dir"`
	SourceIP            string   `yaml:"source_ip"`
	Format              string   `yaml:"format"`
	MaxDepth            int      `yaml:"max_depth"`
}

func defaultConfig() Config {
	return Config{
		Indexes:             []string{"*"},
		NoSubsearchCommands: commandList{"foreach", "appendpipe"},
		Format:              "json",
		MaxDepth:            resolver.DefaultMaxDepth,
	}
}

// commandList is a list of command names. In YAML it is either a sequence or
// one comma separated string.
type commandList []string

func (c *commandList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = protect.ParseCommands(value.Value)
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*c = list
	return nil
}

// loadConfig reads path over cfg. Keys absent from the file keep their value.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Format {
	case "json", "cbor":
	default:
		return fmt.Errorf("config: format %q: want json or cbor", c.Format)
	}
	if c.MaxDepth <= 0 {
		return errors.New("config: max_depth must be positive")
	}
	if c.TWS < 0 || c.TWF < 0 {
		return errors.New("config: time window bounds must not be negative")
	}
	return nil
}

// configFlags holds the flag values that may override the file.
type configFlags struct {
	indexes     []string
	tws, twf    int64
	noSubsearch []string
	macrosDir   string
	catalogDir  string
	sourceIP    string
	maxDepth    int
}

func (f *configFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.indexes, "indexes", nil, "Indexes the query may read (comma separated, * admits any)")
	fs.Int64Var(&f.tws, "tws", 0, "Search window start, Unix seconds")
	fs.Int64Var(&f.twf, "twf", 0, "Search window end, Unix seconds")
	fs.StringSliceVar(&f.noSubsearch, "no-subsearch", nil, "Commands whose [...] argument is not a subsearch")
	fs.StringVar(&f.macrosDir, "macros-dir", "", "Directory of macro definitions")
	fs.StringVar(&f.catalogDir, "catalog-dir", "", "Directory of the datamodel and job catalog")
	fs.StringVar(&f.sourceIP, "source-ip", "", "Address jobs are looked up for")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "Maximum nesting of loaded jobs")
}

// apply copies the explicitly set flags into cfg.
func (f *configFlags) apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("indexes") {
		cfg.Indexes = f.indexes
	}
	if fs.Changed("tws") {
		cfg.TWS = f.tws
	}
	if fs.Changed("twf") {
		cfg.TWF = f.twf
	}
	if fs.Changed("no-subsearch") {
		cfg.NoSubsearchCommands = f.noSubsearch
	}
	if fs.Changed("macros-dir") {
		cfg.MacrosDir = f.macrosDir
	}
	if fs.Changed("catalog-dir") {
		cfg.CatalogDir = f.catalogDir
	}
	if fs.Changed("source-ip") {
		cfg.SourceIP = f.sourceIP
	}
	if fs.Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
}
