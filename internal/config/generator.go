package config

import (
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml"
)

// Generate writes a sample options file for the given groups. Every option
// is commented out at its default value.
func Generate(w io.Writer, groups []OptGroup) error {
	tree, err := toml.TreeFromMap(map[string]interface{}{})
	if err != nil {
		return err
	}

	for _, g := range groups {
		table := g.Name
		if table == DefaultGroup {
			table = DefaultTable
		}
		for _, o := range g.Opts {
			tree.SetPathWithComment([]string{table, o.Name}, describe(o), true, o.Default)
		}
	}

	if _, err := tree.WriteTo(w); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	return nil
}

func describe(o Opt) string {
	var b strings.Builder
	b.WriteString(o.Help)
	fmt.Fprintf(&b, " (%s value)", o.Type)
	if len(o.Choices) > 0 {
		fmt.Fprintf(&b, " Allowed values: %s", strings.Join(o.Choices, ", "))
	}
	return strings.TrimSpace(b.String())
}
