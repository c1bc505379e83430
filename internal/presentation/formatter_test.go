package presentation

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/invsources/internal/catalog"
	"github.com/zjrosen/invsources/internal/registry"
	"github.com/zjrosen/invsources/internal/testutil"
)

func buildOptions(t *testing.T, keys ...string) *catalog.Catalog {
	t.Helper()
	options, err := catalog.NewPipeline(testutil.NewCountingSource(keys...)).CombinedOptions(context.Background())
	require.NoError(t, err)
	return options
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"json", FormatJSON},
		{"YAML", FormatYAML},
		{" table ", FormatTable},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Contains(t, err.Error(), `"xml"`)
	require.Contains(t, err.Error(), "want one of json, yaml, table")
}

func TestFormatNames(t *testing.T) {
	require.Equal(t, "json, yaml, table", FormatNames())
	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
}

func TestFormatPluginNames(t *testing.T) {
	names := []string{"aws", "azure_rm"}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatJSON).FormatPluginNames(names))
	require.JSONEq(t, `["aws","azure_rm"]`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(&buf, FormatYAML).FormatPluginNames(names))
	require.Equal(t, "- aws\n- azure_rm\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(&buf, FormatTable).FormatPluginNames(names))
	require.Equal(t, "PLUGIN\naws\nazure_rm\n", buf.String())
}

func TestFormatCatalog_KeepsOrder(t *testing.T) {
	options := buildOptions(t, "constructed", "vmware", "ec2")

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatJSON).FormatCatalog(options))
	require.Equal(t, `{
  "vmware": "vmware",
  "ec2": "ec2",
  "scm": "scm",
  "constructed": "constructed",
  "file": "file"
}
`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(&buf, FormatYAML).FormatCatalog(options))
	require.Equal(t, "vmware: vmware\nec2: ec2\nscm: scm\nconstructed: constructed\nfile: file\n", buf.String())
}

func TestFormatCatalog_Table(t *testing.T) {
	options := buildOptions(t, "constructed", "gce")

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatTable).FormatCatalog(options))

	require.Equal(t, ""+
		"KEY          VALUE\n"+
		"gce          gce\n"+
		"scm          scm\n"+
		"constructed  constructed\n"+
		"file         file\n", buf.String())
}

func TestFormatChoices(t *testing.T) {
	reg := testutil.NewRegistryBuilder(t).
		WithReserved().
		WithPlugin("ec2", testutil.InCollection("amazon", "aws"), testutil.WithDescription("Amazon EC2")).
		Build()
	options := buildOptions(t, reg.Keys()...)

	choices := FromCatalog(options, RegistryLabels(reg))

	require.Equal(t, []ChoiceDTO{
		{Value: "ec2", Label: "Amazon EC2"},
		{Value: "scm", Label: "Sourced from a Project"},
		{Value: "constructed", Label: "constructed"},
		{Value: "file", Label: "File, Directory or Script"},
	}, choices)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatJSON).FormatChoices(choices[:1]))
	require.JSONEq(t, `[{"value":"ec2","label":"Amazon EC2"}]`, buf.String())
}

func TestFromCatalog_NoLabels(t *testing.T) {
	options := buildOptions(t, "constructed", "gce")

	choices := FromCatalog(options, nil)

	require.Equal(t, "gce", choices[0].Label)
	require.Equal(t, "Sourced from a Project", choices[1].Label)
}

func TestFormatInjectors(t *testing.T) {
	injectors := FromInjectors([]*registry.Injector{
		{ID: "ec2", Namespace: "amazon", Collection: "aws", PluginName: "aws_ec2", Description: "Amazon EC2"},
		{ID: "constructed", Namespace: "ansible", Collection: "builtin", PluginName: "constructed"},
	})

	require.Equal(t, "amazon.aws.aws_ec2", injectors[0].FQCN)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatTable).FormatInjectors(injectors))
	require.Equal(t, ""+
		"ID           FQCN                         DESCRIPTION\n"+
		"ec2          amazon.aws.aws_ec2           Amazon EC2\n"+
		"constructed  ansible.builtin.constructed\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(&buf, FormatYAML).FormatInjectors(injectors[1:]))
	require.Equal(t, ""+
		"- id: constructed\n"+
		"  fqcn: ansible.builtin.constructed\n"+
		"  namespace: ansible\n"+
		"  collection: builtin\n"+
		"  plugin_name: constructed\n", buf.String())
}

func TestFormatStats(t *testing.T) {
	var buf bytes.Buffer
	stats := catalog.Stats{PluginNames: 1, SourceCatalog: 1, CombinedOptions: 1}

	require.NoError(t, NewFormatter(&buf, FormatJSON).FormatStats(stats))
	require.JSONEq(t, `{"plugin_names":1,"source_catalog":1,"combined_options":1}`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(&buf, FormatTable).FormatStats(stats))
	require.Contains(t, buf.String(), "combined_options  1\n")
}

func TestTable_WideRunes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatTable).FormatChoices([]ChoiceDTO{
		{Value: "日本", Label: "x"},
		{Value: "ab", Label: "y"},
	}))

	require.Equal(t, "VALUE  LABEL\n日本   x\nab     y\n", buf.String())
}

func TestTable_TruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", maxCellWidth+10)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatTable).FormatInjectors([]InjectorDTO{
		{ID: "ec2", FQCN: "amazon.aws.aws_ec2", Description: long},
	}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "ec2  amazon.aws.aws_ec2  "+strings.Repeat("x", maxCellWidth-3)+"...", lines[1])
}

func TestTable_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatTable).FormatPluginNames(nil))
	require.Equal(t, "PLUGIN\n", buf.String())
}

func TestEncode_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf, Format("xml")).FormatPluginNames([]string{"aws"})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
