package config

import "github.com/spf13/pflag"

// Load builds a Config by applying defaults, then the file named by
// --config (if any), then every flag set on fs. fs must already be parsed
// and may be nil, in which case only defaults apply.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if fs == nil {
		return cfg, nil
	}

	if f := fs.Lookup(ConfigFlagName); f != nil && f.Value.String() != "" {
		if err := parseFile(cfg, f.Value.String()); err != nil {
			return nil, err
		}
	}

	if err := parseFlags(cfg, fs); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
