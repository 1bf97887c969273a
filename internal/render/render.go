// Package render draws items for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/vbonduro/stockroom/internal/domain"
)

// Output formats accepted by Encode and the CLI's -o flag.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var ErrUnknownFormat = fmt.Errorf("unknown output format (want %s, %s or %s)", FormatTable, FormatJSON, FormatYAML)

// palette maps the colour names used by the domain schemes to ANSI colours.
var palette = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("12"),
	"green":  lipgloss.Color("10"),
	"gray":   lipgloss.Color("8"),
	"red":    lipgloss.Color("9"),
	"yellow": lipgloss.Color("11"),
	"orange": lipgloss.Color("208"),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(12)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(palette["gray"])
)

func badge(text, colour string) string {
	return lipgloss.NewStyle().Foreground(palette[colour]).Bold(true).Render(text)
}

func GroupBadge(g domain.Group) string {
	return badge(string(g), domain.GroupColors[g])
}

func StatusBadge(s domain.Status) string {
	return badge(string(s), domain.StatusColors[s])
}

func PriorityBadge(p domain.Priority) string {
	return badge(string(p), domain.PriorityColors[p])
}

// FormatPrice renders a price as "$12.50", or "-" when unset.
func FormatPrice(p *domain.Price) string {
	if p == nil {
		return "-"
	}
	return "$" + p.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Table writes items as a bordered table.
func Table(w io.Writer, items []domain.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No items found"))
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "GROUP", "STATUS", "PRIORITY", "PRICE", "QTY", "LOCATION", "TAGS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, it := range items {
		t.Row(
			strconv.FormatInt(it.ID, 10),
			it.Name,
			GroupBadge(it.Group),
			StatusBadge(it.Status),
			PriorityBadge(it.Priority),
			FormatPrice(it.Price),
			strconv.Itoa(it.Quantity),
			orDash(it.Location),
			orDash(strings.Join(it.TagList, ", ")),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Detail writes one item as labelled lines.
func Detail(w io.Writer, it domain.Item) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(it.Name))
	b.WriteString("\n\n")

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	line("ID", strconv.FormatInt(it.ID, 10))
	line("Group", GroupBadge(it.Group))
	line("Status", StatusBadge(it.Status))
	line("Priority", PriorityBadge(it.Priority))
	line("Price", FormatPrice(it.Price))
	line("Quantity", strconv.Itoa(it.Quantity))
	line("Location", orDash(it.Location))
	line("Tags", orDash(strings.Join(it.TagList, ", ")))
	line("Description", orDash(it.Description))
	line("Created", it.CreatedAt.Local().Format("2006-01-02 15:04"))
	line("Updated", it.UpdatedAt.Local().Format("2006-01-02 15:04"))

	_, err := io.WriteString(w, b.String())
	return err
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ValidFormat reports whether format is one the CLI accepts.
func ValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}
