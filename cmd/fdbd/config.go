package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// applyConfigFile sets the flags named in the --config file that were not
// given on the command line. Keys are flag names; lists are accepted for
// slice flags.
func applyConfigFile(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil || path == "" {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}
	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return applyValues(cmd.Flags(), values)
}

func applyValues(flags *pflag.FlagSet, values map[string]interface{}) error {
	for name, v := range values {
		f := flags.Lookup(name)
		if f == nil {
			return errors.Errorf("config file: unknown flag %q", name)
		}
		if f.Changed {
			continue
		}

		var value string
		switch v := v.(type) {
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			value = strings.Join(parts, ",")
		default:
			value = fmt.Sprint(v)
		}
		if err := flags.Set(name, value); err != nil {
			return errors.Wrapf(err, "config file: flag %q", name)
		}
	}
	return nil
}
