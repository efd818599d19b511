// Package output renders roles for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aussie/rolectl/internal/role"
)

// Format selects how roles are rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatYAML, FormatJSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, len(Formats))
	for i, known := range Formats {
		if f == known {
			return f, nil
		}
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown format %q: must be one of %s", s, strings.Join(names, ", "))
}

// roleView is the structured representation used by yaml and json.
type roleView struct {
	Label       string   `json:"label" yaml:"label"`
	Permissions []string `json:"perms" yaml:"perms"`
}

// orderedRoles keeps roles in list order when marshalled as a mapping.
type orderedRoles []role.Role

func (o orderedRoles) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range o {
		var value yaml.Node
		if err := value.Encode(view(r)); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.ID},
			&value,
		)
	}
	return node, nil
}

func (o orderedRoles) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, r := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(r.ID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(view(r))
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func view(r role.Role) roleView {
	return roleView{Label: r.Label, Permissions: r.Permissions.Sorted()}
}

// WriteRoles renders roles in the given format, keeping their order.
func WriteRoles(w io.Writer, roles []role.Role, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, orderedRoles(roles))
	case FormatYAML:
		return writeYAML(w, orderedRoles(roles))
	case FormatTable:
		return writeTable(w, roles)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteRole renders a single role.
func WriteRole(w io.Writer, r role.Role, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, orderedRoles{r})
	case FormatYAML:
		return writeYAML(w, orderedRoles{r})
	case FormatTable:
		return writeDetail(w, r)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v orderedRoles) error {
	if len(v) == 0 {
		_, err := fmt.Fprintln(w, "{}")
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func writeTable(w io.Writer, roles []role.Role) error {
	if len(roles) == 0 {
		_, err := fmt.Fprintln(w, "No roles found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tPERMISSIONS")
	fmt.Fprintln(tw, "--\t-----\t-----------")
	for _, r := range roles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, dash(r.Label), joinPermissions(r.Permissions))
	}
	return tw.Flush()
}

func writeDetail(w io.Writer, r role.Role) error {
	fmt.Fprintf(w, "ID:           %s\n", r.ID)
	fmt.Fprintf(w, "Label:        %s\n", dash(r.Label))
	if len(r.Permissions) > 0 {
		fmt.Fprintf(w, "Permissions:  %s\n", joinPermissions(r.Permissions))
	} else {
		fmt.Fprintf(w, "Permissions:  (none)\n")
	}
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created:      %s\n", r.CreatedAt.UTC().Format(time.RFC3339))
	}
	if !r.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated:      %s\n", r.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func joinPermissions(p role.PermissionSet) string {
	if len(p) == 0 {
		return "-"
	}
	return strings.Join(p.Sorted(), ", ")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
