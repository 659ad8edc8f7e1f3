package storage

import (
	"fmt"
	"net/url"
	"strings"

	"boscoin.io/governance/lib/errors"
)

// Config is the parsed storage endpoint, like `file:///var/lib/gov` or
// `memory://`.
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (*Config, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errors.StorageCoreError.Wrap(err)
	}

	config := &Config{Scheme: strings.ToLower(u.Scheme)}

	switch config.Scheme {
	case "memory":
	case "file":
		config.Path = u.Path
		if len(config.Path) < 1 {
			return nil, errors.StorageCoreError.Clone().SetData("error", "empty file path")
		}
	default:
		return nil, errors.StorageCoreError.Clone().SetData(
			"error",
			fmt.Sprintf("unsupported storage scheme, %q", u.Scheme),
		)
	}

	return config, nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s://%s", c.Scheme, c.Path)
}
