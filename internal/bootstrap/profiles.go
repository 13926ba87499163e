package bootstrap

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// profilesKey is the top-level list in a profiles file
const profilesKey = "employees"

// LoadProfilesFile reads employee profiles from a YAML, JSON or TOML file:
//
//	employees:
//	  - id: emp-1
//	    tier: gold
//	    opening_points: 500
//	    active: true
//
// Profiles are checked again by the engine on every call; here only ids and
// tiers are rejected early.
func LoadProfilesFile(path string) ([]domain.EmployeeProfile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedLoadProfiles, path, err)
	}

	var profiles []domain.EmployeeProfile
	if err := v.UnmarshalKey(profilesKey, &profiles); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedLoadProfiles, path, err)
	}

	seen := make(map[string]bool, len(profiles))
	for i, p := range profiles {
		switch {
		case p.ID == "":
			return nil, fmt.Errorf("%w: profile %d has no id", domain.ErrValidation, i)
		case seen[p.ID]:
			return nil, fmt.Errorf("%w: duplicate profile %s", domain.ErrValidation, p.ID)
		case !p.Tier.Valid():
			return nil, fmt.Errorf("%w: profile %s: tier %q", domain.ErrValidation, p.ID, p.Tier)
		}
		seen[p.ID] = true
	}
	return profiles, nil
}
