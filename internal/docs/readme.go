// Package docs renders the command reference into README.md.
package docs

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"server-warden/internal/command"
	"server-warden/pkg/cmd"
)

// CommandSections lists every command under a heading per category.
// categoryWeights orders the categories, lower first.
func CommandSections(registry *cmd.Registry, categoryWeights map[string]int, prefix string) string {
	commands := registry.GetAll()
	category := func(c cmd.Command) string {
		if meta, ok := command.Meta(c); ok {
			return meta.Category()
		}
		return ""
	}
	sort.SliceStable(commands, func(i, j int) bool {
		ci, cj := category(commands[i]), category(commands[j])
		wi, wj := categoryWeights[ci], categoryWeights[cj]
		if wi != wj {
			return wi < wj
		}
		if ci != cj {
			return ci < cj
		}
		return commands[i].Name() < commands[j].Name()
	})

	var buf bytes.Buffer
	current := ""
	for i, c := range commands {
		if cat := category(c); i == 0 || cat != current {
			if i > 0 {
				buf.WriteString("\n")
			}
			current = cat
			fmt.Fprintf(&buf, "### %s\n\n", current)
		}

		line := fmt.Sprintf("- **`%s%s`** - %s", prefix, c.Name(), c.Description())
		if roles := command.RolesFor(c); len(roles) > 0 {
			line += fmt.Sprintf(" _(%s)_", strings.Join(roles, ", "))
		}
		buf.WriteString(line + "\n")
	}
	return buf.String()
}

// UpdateReadme executes the template at tmplPath with the command sections
// and writes the result to outPath.
func UpdateReadme(registry *cmd.Registry, categoryWeights map[string]int, prefix, tmplPath, outPath string) error {
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	data := struct {
		CommandSections string
	}{
		CommandSections: CommandSections(registry, categoryWeights, prefix),
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return fmt.Errorf("render readme: %w", err)
	}
	return os.WriteFile(outPath, out.Bytes(), 0644)
}
