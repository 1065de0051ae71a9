package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// table is the column view of a value for the table format.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return &printer{w: w, format: format}, nil
	default:
		return nil, errors.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// print writes data in the chosen format. t renders the table form.
func (p *printer) print(data any, t table) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatYAML:
		return p.yaml(data)
	default:
		return p.table(t)
	}
}

// message prints a line of text in table mode only, so json and yaml output stay parseable.
func (p *printer) message(format string, args ...any) {
	if p.format == formatTable {
		fmt.Fprintf(p.w, format+"\n", args...)
	}
}

func (p *printer) table(t table) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if len(t.header) > 0 {
		fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// yaml goes through JSON so the keys match the API field names.
func (p *printer) yaml(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "marshal output")
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return errors.Wrap(err, "convert output")
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return errors.Wrap(err, "encode output")
	}
	return enc.Close()
}

// blockStyle clears the flow style the JSON input leaves on every node.
func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	for _, child := range n.Content {
		blockStyle(child)
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func optionalID(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
