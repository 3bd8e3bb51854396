package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/JonMunkholm/employees/internal/core"
)

// flagName is the command-line spelling of a field key.
func flagName(key string) string {
	if key == "dataAdmissao" {
		return "data-admissao"
	}
	return key
}

// fieldFlags registers one string flag per employee field.
func fieldFlags(cmd *cobra.Command) {
	for _, k := range core.FieldKeys {
		cmd.Flags().String(flagName(k), "", "employee "+k)
	}
}

// flagValues returns the field flags that were set on the command line.
func flagValues(cmd *cobra.Command) map[string]string {
	out := map[string]string{}
	for _, k := range core.FieldKeys {
		name := flagName(k)
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, _ := cmd.Flags().GetString(name)
		out[k] = v
	}
	return out
}

// readRecords decodes an employee file: one mapping, or a list of them.
// YAML and JSON are both accepted. Keys are matched loosely against the
// field names; "id" is ignored.
func (cl *commandline) readRecords(path string) ([]map[string]string, error) {
	raw, err := afero.ReadFile(cl.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	switch d := doc.(type) {
	case map[any]any:
		rec, err := record(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []map[string]string{rec}, nil
	case []any:
		out := make([]map[string]string, 0, len(d))
		for i, item := range d {
			m, ok := item.(map[any]any)
			if !ok {
				return nil, fmt.Errorf("%s: item %d is not a mapping", path, i+1)
			}
			rec, err := record(m)
			if err != nil {
				return nil, fmt.Errorf("%s: item %d: %w", path, i+1, err)
			}
			out = append(out, rec)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%s is empty", path)
	default:
		return nil, fmt.Errorf("%s: expected a mapping or a list of mappings", path)
	}
}

func record(m map[any]any) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for rawKey, v := range m {
		name := fmt.Sprint(rawKey)
		if strings.EqualFold(name, core.ColumnID) {
			continue
		}
		key, ok := core.FieldKey(name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		s, err := scalar(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[key] = s
	}
	return out, nil
}

func scalar(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	case time.Time:
		return x.Format("2006-01-02"), nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}
