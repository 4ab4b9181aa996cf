package kvpairs

import (
	"os"
	"path"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	APP_NAME      = "kvpairs"
	SETTINGS_FILE = "config.toml"
)

// Standard paths to use to store kvpairs related data
// https://specifications.freedesktop.org/basedir-spec/latest/
type StandardPaths struct {
	// Can be used to change the profile
	// Default: "kvpairs"
	APPNAME string
	// Path to configuration directory.
	// Default: "$XDG_CONFIG_HOME/$KVPAIRS_APPNAME" or "$HOME/.config/$KVPAIRS_APPNAME" if unset
	CONFIG_HOME string
	// Path to state directory
	// Default: "$XDG_STATE_HOME/$KVPAIRS_APPNAME" or "$HOME/.local/state/$KVPAIRS_APPNAME" if unset
	STATE_HOME string
	// Path to data directory
	// Default: "$XDG_DATA_HOME/$KVPAIRS_APPNAME" or "$HOME/.local/share/$KVPAIRS_APPNAME"
	DATA_HOME string
}

func (s StandardPaths) init(fs afero.Fs) error {
	for _, p := range []string{s.CONFIG_HOME, s.STATE_HOME, s.DATA_HOME} {
		if err := fs.MkdirAll(p, 0700); err != nil {
			return errors.Wrapf(err, "failed to create standard path: %s", p)
		}
	}
	return nil
}

type stdpathsBuilder struct {
	stdpaths *StandardPaths
	home     string

	app    string
	config string
	state  string
	data   string
}

func newStdpathsBuilder() *stdpathsBuilder {
	return &stdpathsBuilder{home: os.Getenv("HOME")}
}

func (b *stdpathsBuilder) withStdpaths(stdpaths *StandardPaths) *stdpathsBuilder {
	bcp := *b
	bcp.stdpaths = stdpaths
	return &bcp
}

func (b *stdpathsBuilder) isValid(val string) bool {
	return !slices.Contains([]string{"", "-"}, val)
}

func (b *stdpathsBuilder) bind(val, env, def string) string {
	if b.isValid(val) {
		return val
	}
	if v := os.Getenv(env); b.isValid(v) {
		return v
	}
	return def
}

func (b *stdpathsBuilder) bindToApp(val, env, def string) string {
	v := b.bind(val, env, def)
	if v == val {
		return val
	}
	return path.Join(v, b.app)
}

func (b *stdpathsBuilder) setApp(val string) *stdpathsBuilder {
	b.app = b.bind(val, "KVPAIRS_APPNAME", APP_NAME)
	return b
}

func (b *stdpathsBuilder) setConfig(val string) *stdpathsBuilder {
	b.config = b.bindToApp(val, "XDG_CONFIG_HOME", path.Join(b.home, ".config"))
	return b
}

func (b *stdpathsBuilder) setState(val string) *stdpathsBuilder {
	b.state = b.bindToApp(val, "XDG_STATE_HOME", path.Join(b.home, ".local", "state"))
	return b
}

func (b *stdpathsBuilder) setData(val string) *stdpathsBuilder {
	b.data = b.bindToApp(val, "XDG_DATA_HOME", path.Join(b.home, ".local", "share"))
	return b
}

func (b *stdpathsBuilder) build() *StandardPaths {
	stdpaths := b.stdpaths
	stdpaths.APPNAME = b.app
	stdpaths.CONFIG_HOME = b.config
	stdpaths.STATE_HOME = b.state
	stdpaths.DATA_HOME = b.data
	return stdpaths
}

// Overrides empty standard paths with the environment or the defaults.
func BindStandardPaths(stdpaths *StandardPaths) *StandardPaths {
	b := newStdpathsBuilder().withStdpaths(stdpaths)
	return b.setApp(stdpaths.APPNAME).
		setConfig(stdpaths.CONFIG_HOME).
		setData(stdpaths.DATA_HOME).
		setState(stdpaths.STATE_HOME).
		build()
}

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Settings read from the TOML settings file
type Settings struct {
	// Default output encoding of parsed documents
	Output string `toml:"output"`
	// Path to the document store. Relative paths live in DATA_HOME
	Database string `toml:"database"`
	LogLevel string `toml:"log_level"`
	// Parse cache
	CacheSize int      `toml:"cache_size"`
	CacheTTL  Duration `toml:"cache_ttl"`
}

func DefaultSettings() Settings {
	return Settings{
		Output:    "text",
		Database:  APP_NAME + ".db",
		LogLevel:  "info",
		CacheSize: 128,
		CacheTTL:  Duration{5 * time.Minute},
	}
}

func (s *Settings) applyDefaults() {
	def := DefaultSettings()
	if s.Output == "" {
		s.Output = def.Output
	}
	if s.Database == "" {
		s.Database = def.Database
	}
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
	if s.CacheSize <= 0 {
		s.CacheSize = def.CacheSize
	}
	if s.CacheTTL.Duration <= 0 {
		s.CacheTTL = def.CacheTTL
	}
}

type Configuration struct {
	Paths    StandardPaths
	Settings Settings

	fs afero.Fs
}

func (c *Configuration) FS() afero.Fs {
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	return c.fs
}

// Returns the location of the document store
func (c *Configuration) Database() string {
	db := c.Settings.Database
	if db == INMEMORY_DATABASE || path.IsAbs(db) {
		return db
	}
	return path.Join(c.Paths.DATA_HOME, db)
}

// Loads the settings file. An unset path ("" or "-") falls back to
// CONFIG_HOME/config.toml, and to the defaults when that file is missing.
func LoadSettings(fs afero.Fs, fpath string, stdpaths *StandardPaths) (*Configuration, error) {
	conf := &Configuration{Paths: *stdpaths, Settings: DefaultSettings(), fs: fs}

	explicit := fpath != "" && fpath != "-"
	if !explicit {
		fpath = path.Join(stdpaths.CONFIG_HOME, SETTINGS_FILE)
	}

	content, err := afero.ReadFile(fs, fpath)
	switch {
	case err == nil:
		var s Settings
		if err := toml.Unmarshal(content, &s); err != nil {
			return nil, errors.Wrapf(err, "failed to parse settings file %s", fpath)
		}
		s.applyDefaults()
		conf.Settings = s
	case explicit || !os.IsNotExist(err):
		return nil, errors.Wrapf(err, "failed to read settings file %s", fpath)
	}

	return conf, nil
}

// Creates the standard paths so the store can be opened
func InitConfiguration(conf *Configuration) error {
	if err := conf.Paths.init(conf.FS()); err != nil {
		return errors.Wrap(err, "failed to initialize standard paths")
	}
	return nil
}
