package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buscar-app/buscar/internal/cli"
	"github.com/buscar-app/buscar/internal/model"
)

func compareCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Show the side-by-side comparison table",
		Long: `Render the compare list (up to four cars) as a side-by-side feature
table. Add or remove cars from the interactive browse view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			if clear {
				if err := a.store.ClearCompare(ctx); err != nil {
					return fmt.Errorf("failed to clear compare list: %w", err)
				}
				fmt.Println(cli.FormatSuccess("Comparador vacío"))
				return nil
			}

			ids, err := a.store.CompareList(ctx)
			if err != nil {
				return fmt.Errorf("failed to read compare list: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println(cli.FormatInfo("Añade coches para comparar. Puedes comparar hasta 4 coches."))
				return nil
			}

			cars := resolveListings(ctx, a, ids)
			if len(cars) == 0 {
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Comparador (%d)", len(cars))))
			printCompareTable(cars)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "empty the compare list")
	return cmd
}

// printCompareTable renders one row per feature, one column per car.
func printCompareTable(cars []model.CarListing) {
	rows := []struct {
		label string
		value func(model.CarListing) string
	}{
		{"Precio", func(c model.CarListing) string { return cli.FormatEuro(c.Price) }},
		{"Año", func(c model.CarListing) string { return fmt.Sprintf("%d", c.Year) }},
		{"Kilometraje", func(c model.CarListing) string { return cli.FormatKM(c.KM) }},
		{"Combustible", func(c model.CarListing) string { return c.Fuel }},
		{"Cambio", func(c model.CarListing) string { return c.Transmission }},
		{"Potencia", func(c model.CarListing) string { return cli.FormatPower(c.Power) }},
		{"Ubicación", func(c model.CarListing) string { return c.Location }},
		{"Fuente", func(c model.CarListing) string { return c.Source }},
		{"Publicado", func(c model.CarListing) string {
			if c.ScrapedAt.IsZero() {
				return "N/D"
			}
			return c.ScrapedAt.Format("02/01/2006")
		}},
	}

	var header strings.Builder
	header.WriteString(fmt.Sprintf("%-14s", "Característica"))
	for _, car := range cars {
		header.WriteString(fmt.Sprintf(" %-22s", clip(car.FullName, 22)))
	}
	fmt.Println(cli.TableHeaderStyle.Render(header.String()))

	for _, row := range rows {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%-14s", row.label))
		for _, car := range cars {
			line.WriteString(fmt.Sprintf(" %-22s", row.value(car)))
		}
		fmt.Println(cli.TableCellStyle.Render(line.String()))
	}
}
