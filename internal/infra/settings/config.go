package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"

	"github.com/brianslattery/kms-propertizer/internal/domain"
)

const (
	FileName       = "propertizer.yaml"
	LegacyFileName = "propertizer.properties"

	// KeyIDEnv supplies the KMS key id when neither flags nor file set one.
	KeyIDEnv = "KMS_KEY_ID"
)

// Load reads the config file and applies it on top of defaults.
//
// With explicit set, that file must exist; a ".properties" extension selects
// the legacy format. Otherwise dir/propertizer.yaml is tried, then
// dir/propertizer.properties, and a missing file just yields the defaults.
// The returned path is the file that was read ("" when none).
func Load(dir, explicit string) (domain.Config, string, error) {
	cfg := domain.DefaultConfig()

	if explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			return cfg, path, &domain.OpError{
				Op:   "settings.load",
				Kind: domain.KindNotFound,
				Path: path,
				Err:  err,
			}
		}
		if strings.EqualFold(filepath.Ext(path), ".properties") {
			return loadLegacy(cfg, path)
		}
		return loadYAML(cfg, path)
	}

	path := filepath.Join(dir, FileName)
	if exists(path) {
		return loadYAML(cfg, path)
	}
	path = filepath.Join(dir, LegacyFileName)
	if exists(path) {
		return loadLegacy(cfg, path)
	}
	return cfg, "", nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

func loadYAML(cfg domain.Config, path string) (domain.Config, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, path, &domain.OpError{
			Op:   "settings.loadyaml",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, path, &domain.OpError{
			Op:   "settings.loadyaml",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	p := y.Propertizer
	return Merge(cfg, domain.Config{
		Application: domain.FileConfig{Input: p.Application.Input, Output: p.Application.Output},
		Target:      domain.FileConfig{Input: p.Target.Input, Output: p.Target.Output},
		DataSource: domain.DataSourceConfig{
			Username: p.DataSource.Username,
			Password: p.DataSource.Password,
			URL:      p.DataSource.URL,
		},
		KMS: domain.KMSConfig{
			KeyID:           p.KMS.KeyID,
			Region:          p.KMS.Region,
			RoleARN:         p.KMS.RoleARN,
			ExternalID:      p.KMS.ExternalID,
			AccessKeyID:     p.KMS.AccessKeyID,
			SecretAccessKey: p.KMS.SecretAccessKey,
			SessionToken:    p.KMS.SessionToken,
		},
		IIQ:     domain.IIQConfig{Command: p.IIQ.Command},
		Runs:    domain.RunsConfig{Dir: p.Runs.Dir, Index: p.Runs.Index},
		EnvFile: p.EnvFile,
	}), path, nil
}

// loadLegacy reads the datasource options from a propertizer.properties file.
func loadLegacy(cfg domain.Config, path string) (domain.Config, string, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadFile(path)
	if err != nil {
		return cfg, path, &domain.OpError{
			Op:   "settings.loadlegacy",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return Merge(cfg, domain.Config{
		DataSource: domain.DataSourceConfig{
			Username: p.GetString(domain.DataSourceUserKey, ""),
			Password: p.GetString(domain.DataSourcePasswordKey, ""),
			URL:      p.GetString(domain.DataSourceURLKey, ""),
		},
	}), path, nil
}

// Merge returns base with every non-empty field of over applied.
func Merge(base, over domain.Config) domain.Config {
	out := base
	out.Application.Input = first(over.Application.Input, base.Application.Input)
	out.Application.Output = first(over.Application.Output, base.Application.Output)
	out.Target.Input = first(over.Target.Input, base.Target.Input)
	out.Target.Output = first(over.Target.Output, base.Target.Output)

	out.DataSource.Username = first(over.DataSource.Username, base.DataSource.Username)
	out.DataSource.Password = first(over.DataSource.Password, base.DataSource.Password)
	out.DataSource.URL = first(over.DataSource.URL, base.DataSource.URL)

	out.KMS.KeyID = first(over.KMS.KeyID, base.KMS.KeyID)
	out.KMS.Region = first(over.KMS.Region, base.KMS.Region)
	out.KMS.RoleARN = first(over.KMS.RoleARN, base.KMS.RoleARN)
	out.KMS.ExternalID = first(over.KMS.ExternalID, base.KMS.ExternalID)
	out.KMS.AccessKeyID = first(over.KMS.AccessKeyID, base.KMS.AccessKeyID)
	out.KMS.SecretAccessKey = first(over.KMS.SecretAccessKey, base.KMS.SecretAccessKey)
	out.KMS.SessionToken = first(over.KMS.SessionToken, base.KMS.SessionToken)

	out.IIQ.Command = first(over.IIQ.Command, base.IIQ.Command)
	out.Runs.Dir = first(over.Runs.Dir, base.Runs.Dir)
	out.Runs.Index = over.Runs.Index || base.Runs.Index
	out.EnvFile = first(over.EnvFile, base.EnvFile)
	return out
}

// ApplyEnvironment fills settings that may come from the environment
// snapshot when still unset.
func ApplyEnvironment(cfg domain.Config, env domain.Environment) domain.Config {
	if cfg.KMS.KeyID == "" {
		cfg.KMS.KeyID = env.Value(KeyIDEnv)
	}
	return cfg
}

func first(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
