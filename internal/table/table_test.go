package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "H2", "h3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignRight})
	table.Append([]string{"ROW1", "ROW2", "foo bar"})
	table.Append([]string{"a", "b", "c"})
	table.Render()

	expected := `
+---------+------+---------+
| HEADER1 |  H2  |      h3 |
+---------+------+---------+
| ROW1    | ROW2 | foo bar |
| a       |    b | c       |
+---------+------+---------+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestTableWithRows(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).
		WithHeader([]string{"A", "B"}).
		WithRows([][]string{{"1", "2"}, {"3", "4"}}).
		Render()

	expected := `
+---+---+
| A | B |
+---+---+
| 1 | 2 |
| 3 | 4 |
+---+---+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestColoredTable(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "HEADER2", "HEADER3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignCenter})

	table.Append([]string{
		color.New(color.Bold).Sprint("Bold text"),
		"12345",
		color.New(color.FgGreen).Sprint("Green text"),
	})
	table.Append([]string{
		"Normal",
		color.New(color.Bold).Sprint("999"),
		color.New(color.FgGreen).Sprint("More color"),
	})
	table.Render()

	result := buf.String()
	lines := strings.Split(result, "\n")
	require.True(t, len(lines) >= 5, "table should have at least 5 lines")

	// Color codes must not throw off the alignment.
	expectedLength := len(lines[0])
	for i := 1; i < len(lines)-1; i++ {
		assert.Equal(t, expectedLength, len(stripAnsi(lines[i])),
			"line %d has incorrect length after stripping ANSI codes", i)
	}
}
