package presentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/invsources/internal/catalog"
)

// Format selects how results are written.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists the accepted output formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTable}
}

// ParseFormat validates s. An empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatJSON, nil
	}
	if slices.Contains(Formats(), f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedFormat, s, FormatNames())
}

// FormatNames returns the accepted formats as a comma separated list.
func FormatNames() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	format Format
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer, format Format) *Formatter {
	return &Formatter{
		writer: writer,
		format: format,
	}
}

// FormatPluginNames writes the discovered plugin names.
func (f *Formatter) FormatPluginNames(names []string) error {
	if f.format != FormatTable {
		return f.encode(names)
	}
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name}
	}
	return f.table([]string{"PLUGIN"}, rows)
}

// FormatCatalog writes a catalogue as an ordered mapping.
func (f *Formatter) FormatCatalog(c *catalog.Catalog) error {
	if f.format != FormatTable {
		return f.encode(c)
	}
	pairs := c.Pairs()
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.Key, p.Value}
	}
	return f.table([]string{"KEY", "VALUE"}, rows)
}

// FormatChoices writes value/label pairs.
func (f *Formatter) FormatChoices(choices []ChoiceDTO) error {
	if f.format != FormatTable {
		return f.encode(choices)
	}
	rows := make([][]string, len(choices))
	for i, c := range choices {
		rows[i] = []string{c.Value, c.Label}
	}
	return f.table([]string{"VALUE", "LABEL"}, rows)
}

// FormatInjectors writes the registry entries.
func (f *Formatter) FormatInjectors(injectors []InjectorDTO) error {
	if f.format != FormatTable {
		return f.encode(injectors)
	}
	rows := make([][]string, len(injectors))
	for i, inj := range injectors {
		rows[i] = []string{inj.ID, inj.FQCN, inj.Description}
	}
	return f.table([]string{"ID", "FQCN", "DESCRIPTION"}, rows)
}

// FormatStats writes per-stage computation counts.
func (f *Formatter) FormatStats(stats catalog.Stats) error {
	if f.format != FormatTable {
		return f.encode(stats)
	}
	return f.table([]string{"STAGE", "COMPUTATIONS"}, [][]string{
		{string(catalog.StagePluginNames), fmt.Sprint(stats.PluginNames)},
		{string(catalog.StageSourceCatalog), fmt.Sprint(stats.SourceCatalog)},
		{string(catalog.StageCombinedOptions), fmt.Sprint(stats.CombinedOptions)},
	})
}

func (f *Formatter) encode(v any) error {
	switch f.format {
	case FormatYAML:
		encoder := yaml.NewEncoder(f.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return encoder.Close()
	case FormatJSON, "":
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f.format)
	}
}

// tableStyle renders borderless columns separated by two spaces.
var tableStyle = func() table.Style {
	style := table.StyleLight
	style.Box.PaddingLeft = ""
	style.Box.PaddingRight = ""
	style.Box.MiddleVertical = "  "
	style.Format.Header = text.FormatDefault
	style.Options = table.Options{SeparateColumns: true}
	return style
}()

// maxCellWidth caps free-text columns such as injector descriptions.
const maxCellWidth = 60

// truncateCell shortens s to maxLen terminal cells.
func truncateCell(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

func (f *Formatter) table(headers []string, rows [][]string) error {
	t := table.NewWriter()
	header := make(table.Row, len(headers))
	configs := make([]table.ColumnConfig, len(headers))
	for i, h := range headers {
		header[i] = h
		configs[i] = table.ColumnConfig{
			Number:           i + 1,
			Align:            text.AlignLeft,
			AlignHeader:      text.AlignLeft,
			WidthMax:         maxCellWidth,
			WidthMaxEnforcer: truncateCell,
		}
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.SetColumnConfigs(configs)
	t.SetStyle(tableStyle)
	t.SuppressTrailingSpaces()

	_, err := io.WriteString(f.writer, t.Render()+"\n")
	return err
}
