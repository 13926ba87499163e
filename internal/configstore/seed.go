package configstore

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// LoadSeedFile reads economy tunables from a YAML, JSON or TOML file over the
// built-in defaults. Sections and map entries absent from the file keep their
// default values; a map entry that is present replaces the default entry.
func LoadSeedFile(path string) (*domain.EconomyConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgReadSeedFile, path, err)
	}

	cfg := domain.DefaultEconomyConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgDecodeSeedFile, path, err)
	}
	cfg.Version = 0

	if problems := Validate(cfg); len(problems) > 0 {
		return nil, domain.ConfigInvalidError{Problems: problems}
	}
	return cfg, nil
}
