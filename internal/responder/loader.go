package responder

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// profilesFile is the schema of an optional responder profiles YAML file.
type profilesFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles returns the responder profiles for this deployment. With an
// empty path the built-ins are used as-is. Otherwise the YAML file is read
// and merged over the built-ins: a profile with a known name overrides it in
// place (keeping declared order), an unknown name is appended. Validation
// problems are fatal; a bad profiles file should stop startup, not surface
// mid-conversation.
func LoadProfiles(path string, logger *slog.Logger) ([]Profile, error) {
	profiles := Builtins()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse profiles file %s: %w", path, err)
	}

	index := make(map[string]int, len(profiles))
	for i, p := range profiles {
		index[p.Name] = i
	}

	for _, p := range file.Profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profiles file %s: %w", path, err)
		}
		if i, ok := index[p.Name]; ok {
			profiles[i] = p
			logger.Info("responder profile overridden", "name", p.Name, "path", path)
			continue
		}
		index[p.Name] = len(profiles)
		profiles = append(profiles, p)
		logger.Info("responder profile added", "name", p.Name, "path", path)
	}

	return profiles, nil
}
