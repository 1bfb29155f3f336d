package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/buscar-app/buscar/internal/browse"
	"github.com/buscar-app/buscar/internal/cli"
	"github.com/buscar-app/buscar/internal/model"
	"github.com/buscar-app/buscar/internal/refdata"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4D96FF"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#3A5FA8"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	markStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	toastStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#222222")).
			Background(lipgloss.Color("#FFE66D")).
			Padding(0, 1)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1D3"))

	activeCategoryStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#222222")).
				Background(lipgloss.Color("#95E1D3")).
				Padding(0, 1)

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4D96FF")).
			Padding(1, 2)
)

// sortLabels are the user-facing names of the sort orders.
var sortLabels = map[browse.SortOrder]string{
	browse.SortDateDesc:  "Más recientes",
	browse.SortPriceAsc:  "Precio ↑",
	browse.SortPriceDesc: "Precio ↓",
	browse.SortYearDesc:  "Año ↓",
	browse.SortKMAsc:     "Km ↑",
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateDetail:
		return m.detailView()
	case StateHelp:
		return m.helpView()
	case StateBrowse:
	}
	return m.browseView()
}

func (m Model) browseView() string {
	var b strings.Builder

	b.WriteString(m.headerLine())
	b.WriteString("\n")
	b.WriteString(m.categoryLine())
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	if m.searchMode {
		b.WriteString("Buscar: " + m.searchInput.View())
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("Marcas: " + brandHint(m.brands, 8)))
		b.WriteString("\n\n")
	}

	if m.snap.Loading && len(m.snap.Listings) == 0 {
		b.WriteString(m.spinner.View() + " Cargando coches...\n")
	} else if len(m.snap.Listings) == 0 {
		b.WriteString("No se han encontrado coches con estos filtros.\n")
	} else {
		b.WriteString(m.listingTable())
	}

	b.WriteString("\n")
	b.WriteString(m.paginationLine())
	b.WriteString("\n")
	if m.toast != "" {
		b.WriteString(toastStyle.Render(m.toast))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(m.shortHelpLine()))
	return b.String()
}

func (m Model) headerLine() string {
	title := headerStyle.Render("🚗 BusCar")
	loading := ""
	if m.snap.Loading {
		loading = " " + m.spinner.View()
	}
	badges := badgeStyle.Render(fmt.Sprintf("  ♥ %d  ⇄ %d", m.favCount, m.cmpCount))
	total := footerStyle.Render(fmt.Sprintf("  %s coches", cli.GroupThousands(m.snap.Total)))
	return title + badges + total + loading
}

func (m Model) categoryLine() string {
	parts := make([]string, 0, len(refdata.Categories))
	for i, cat := range refdata.Categories {
		label := fmt.Sprintf("%d·%s", i+1, cat.Name)
		if m.snap.Criteria.Category == cat.Tag {
			parts = append(parts, activeCategoryStyle.Render(label))
		} else {
			parts = append(parts, categoryStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) filterLine() string {
	c := m.snap.Criteria
	var parts []string
	if c.Brand != "" {
		if c.Model != "" {
			parts = append(parts, c.Brand+" "+c.Model)
		} else {
			parts = append(parts, c.Brand)
		}
	}
	if c.MaxPrice < browse.PriceUnbounded {
		parts = append(parts, "Hasta "+cli.FormatEuro(c.MaxPrice))
	}
	if c.YearMin > 0 {
		parts = append(parts, fmt.Sprintf("Desde %d", c.YearMin))
	}
	if len(c.Fuel) > 0 {
		parts = append(parts, strings.Join(c.Fuel, "/"))
	}
	if len(c.Transmission) > 0 {
		parts = append(parts, strings.Join(c.Transmission, "/"))
	}
	if c.Location != "" {
		parts = append(parts, c.Location)
	}
	if c.Search != "" {
		parts = append(parts, "\""+c.Search+"\"")
	}

	filters := "Sin filtros"
	if len(parts) > 0 {
		filters = strings.Join(parts, " · ")
	}
	sort := sortLabels[m.snap.Cursor.Sort]
	return footerStyle.Render("Filtros: "+filters) + footerStyle.Render("  |  Orden: "+sort)
}

func (m Model) listingTable() string {
	var b strings.Builder
	for i, car := range m.snap.Listings {
		marks := "  "
		if m.snap.Favorites[car.ID] {
			marks = markStyle.Render("♥") + " "
		}
		if m.snap.Compare[car.ID] {
			marks = strings.TrimRight(marks, " ") + markStyle.Render("⇄")
		}

		line := fmt.Sprintf("%-2s %-28s %4d  %10s %12s  %-10s %-10s %s",
			marks,
			truncate(car.FullName, 28),
			car.Year,
			cli.FormatEuro(car.Price),
			cli.FormatKM(car.KM),
			car.Fuel,
			truncate(car.Location, 10),
			car.Source,
		)
		if i == m.selected {
			b.WriteString(selectedRowStyle.Render("▸ " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) paginationLine() string {
	if m.snap.Pages <= 1 {
		return ""
	}
	return footerStyle.Render(fmt.Sprintf("Página %d de %d", m.snap.Cursor.Page, m.snap.Pages))
}

func (m Model) detailView() string {
	if m.detail == nil {
		return ""
	}
	car := m.detail

	var b strings.Builder
	b.WriteString(headerStyle.Render(car.FullName))
	b.WriteString("\n\n")
	b.WriteString(detailRow("Precio", cli.FormatEuro(car.Price)))
	b.WriteString(detailRow("Año", fmt.Sprintf("%d", car.Year)))
	b.WriteString(detailRow("Kilometraje", cli.FormatKM(car.KM)))
	b.WriteString(detailRow("Combustible", car.Fuel))
	b.WriteString(detailRow("Cambio", car.Transmission))
	b.WriteString(detailRow("Potencia", cli.FormatPower(car.Power)))
	b.WriteString(detailRow("Ubicación", car.Location))
	b.WriteString(detailRow("Vendedor", sellerLabel(car.SellerType)))
	b.WriteString(detailRow("Fuente", car.Source))
	if !car.ScrapedAt.IsZero() {
		b.WriteString(detailRow("Publicado", car.ScrapedAt.Format("02/01/2006")))
	}
	if car.Warranty {
		b.WriteString(detailRow("Garantía", "Sí"))
	}
	if car.Negotiable {
		b.WriteString(detailRow("Precio", "Negociable"))
	}
	b.WriteString(detailRow("Anuncio", car.URL))

	return detailBoxStyle.Render(b.String()) + "\n" + footerStyle.Render("esc volver · q salir")
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Atajos de teclado"))
	b.WriteString("\n\n")
	for _, group := range m.keymap.FullHelp() {
		for _, binding := range group {
			b.WriteString(fmt.Sprintf("  %-10s %s\n", binding.Help().Key, binding.Help().Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("Las teclas 1-8 activan las categorías."))
	return b.String()
}

func (m Model) shortHelpLine() string {
	var parts []string
	for _, binding := range m.keymap.ShortHelp() {
		parts = append(parts, binding.Help().Key+" "+binding.Help().Desc)
	}
	return strings.Join(parts, " · ")
}

func detailRow(label, value string) string {
	return fmt.Sprintf("%-14s %s\n", label, value)
}

func sellerLabel(kind string) string {
	if kind == model.SellerPrivate {
		return "Particular"
	}
	return "Profesional"
}

// brandHint lists the first few known brand names under the search input.
func brandHint(brands []model.Brand, max int) string {
	names := make([]string, 0, max)
	for _, b := range brands {
		if len(names) == max {
			names = append(names, "…")
			break
		}
		names = append(names, b.Name)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
