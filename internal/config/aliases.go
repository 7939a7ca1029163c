package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/catlaunch/internal/variant"
)

// AliasConfig maps user-chosen names to game variants, e.g. "cdda" or
// "experimental" to DarkDaysAhead.
type AliasConfig struct {
	Aliases map[string]variant.Variant
}

// LoadAliases reads {dir}/aliases. Each non-comment line has the form
// alias=VariantID. A missing file yields an empty config; malformed lines
// and lines naming an unknown variant are skipped.
func LoadAliases(dir string) (*AliasConfig, error) {
	cfg := &AliasConfig{
		Aliases: make(map[string]variant.Variant),
	}

	f, err := os.Open(filepath.Join(dir, "aliases"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		alias := strings.ToLower(strings.TrimSpace(line[:idx]))
		v, err := variant.Parse(line[idx+1:])
		if alias == "" || err != nil {
			continue
		}

		cfg.Aliases[alias] = v
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Resolve returns the variant an alias names, falling back to
// variant.Parse for ids and built-in short names.
func (c *AliasConfig) Resolve(name string) (variant.Variant, error) {
	if c != nil {
		if v, ok := c.Aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			return v, nil
		}
	}
	return variant.Parse(name)
}
