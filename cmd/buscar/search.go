package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buscar-app/buscar/internal/browse"
	"github.com/buscar-app/buscar/internal/cli"
	"github.com/buscar-app/buscar/internal/model"
)

func searchCmd() *cobra.Command {
	var (
		brand        string
		carModel     string
		location     string
		search       string
		category     string
		sortFlag     string
		sources      []string
		fuel         []string
		transmission []string
		maxPrice     int
		minYear      int
		page         int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search listings once and print the results",
		Long: `Run a single search against the aggregator with the given filters and
print the matching page of listings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if category != "" {
				a.session.SelectCategory(category)
			}

			update := browse.FilterUpdate{}
			if cmd.Flags().Changed("brand") {
				update.Brand = &brand
			}
			if cmd.Flags().Changed("model") {
				update.Model = &carModel
			}
			if cmd.Flags().Changed("location") {
				update.Location = &location
			}
			if cmd.Flags().Changed("query") {
				update.Search = &search
			}
			if cmd.Flags().Changed("max-price") {
				update.MaxPrice = &maxPrice
			}
			if cmd.Flags().Changed("min-year") {
				update.YearMin = &minYear
			}
			if cmd.Flags().Changed("sources") {
				update.Sources = &sources
			}
			if cmd.Flags().Changed("fuel") {
				update.Fuel = &fuel
			}
			if cmd.Flags().Changed("transmission") {
				update.Transmission = &transmission
			}
			a.session.SetFilters(update)

			if sortFlag != "" {
				if !a.session.SetSort(browse.SortOrder(sortFlag)) {
					return fmt.Errorf("invalid sort order: %s", sortFlag)
				}
			}
			if page > 0 {
				a.session.GoToPage(page)
			}

			ctx := cmd.Context()
			outcome := a.session.Refresh(ctx)
			if outcome.Notice != "" {
				fmt.Println(cli.FormatWarning(outcome.Notice))
			}

			snap := a.session.Snapshot(ctx)
			printListingTable(snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "filter by brand")
	cmd.Flags().StringVar(&carModel, "model", "", "filter by model (requires --brand)")
	cmd.Flags().StringVar(&location, "location", "", "filter by location")
	cmd.Flags().StringVar(&search, "query", "", "free-text search term")
	cmd.Flags().StringVar(&category, "category", "", "browse category (electrico, economico, premium, ...)")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "sort order (date-desc, price-asc, price-desc, year-desc, km-asc)")
	cmd.Flags().StringSliceVar(&sources, "sources", nil, "restrict to these marketplaces")
	cmd.Flags().StringSliceVar(&fuel, "fuel", nil, "restrict to these fuel types")
	cmd.Flags().StringSliceVar(&transmission, "transmission", nil, "restrict to these transmissions")
	cmd.Flags().IntVar(&maxPrice, "max-price", 0, "maximum price in euros")
	cmd.Flags().IntVar(&minYear, "min-year", 0, "minimum registration year")
	cmd.Flags().IntVar(&page, "page", 0, "result page to show")

	return cmd
}

// printListingTable renders one page of listings with membership marks.
func printListingTable(snap browse.Snapshot) {
	if len(snap.Listings) == 0 {
		fmt.Println(cli.FormatInfo("No se han encontrado coches con estos filtros."))
		return
	}

	header := fmt.Sprintf("%-3s %-28s %-5s %-10s %-12s %-10s %-12s %s",
		"", "Coche", "Año", "Precio", "Km", "Comb.", "Ubicación", "Fuente")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	for _, car := range snap.Listings {
		fmt.Println(formatListingRow(car, snap.Favorites[car.ID], snap.Compare[car.ID]))
	}

	fmt.Println()
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Página %d de %d · %s coches en total",
		snap.Cursor.Page, snap.Pages, cli.GroupThousands(snap.Total))))
}

func formatListingRow(car model.CarListing, favorite, compare bool) string {
	var marks strings.Builder
	if favorite {
		marks.WriteString(cli.HeartIcon)
	}
	if compare {
		marks.WriteString(cli.CompareIcon)
	}

	return fmt.Sprintf("%-3s %-28s %-5d %-10s %-12s %-10s %-12s %s",
		marks.String(),
		clip(car.FullName, 28),
		car.Year,
		cli.PriceStyle.Render(cli.FormatEuro(car.Price)),
		cli.FormatKM(car.KM),
		car.Fuel,
		clip(car.Location, 12),
		cli.SourceBadgeStyle.Render(car.Source),
	)
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
