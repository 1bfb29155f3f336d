package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/buscar-app/buscar/internal/browse"
	"github.com/buscar-app/buscar/internal/cli"
	"github.com/buscar-app/buscar/internal/model"
)

func exportCmd() *cobra.Command {
	var (
		output   string
		brand    string
		carModel string
		location string
		query    string
		sources  []string
		fuel     []string
		maxPrice int
		minYear  int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export search results to CSV",
		Long: `Run a search against the backend and write every matching listing to a
CSV file, walking all result pages.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

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
				update.Search = &query
			}
			if cmd.Flags().Changed("sources") {
				update.Sources = &sources
			}
			if cmd.Flags().Changed("fuel") {
				update.Fuel = &fuel
			}
			if cmd.Flags().Changed("max-price") {
				update.MaxPrice = &maxPrice
			}
			if cmd.Flags().Changed("min-year") {
				update.YearMin = &minYear
			}
			a.session.SetFilters(update)

			outcome := a.session.Refresh(ctx)
			if outcome.Err != nil {
				return fmt.Errorf("failed to fetch listings: %w", outcome.Err)
			}

			snap := a.session.Snapshot(ctx)
			if snap.Total == 0 {
				fmt.Println(cli.FormatInfo("No hay coches que exportar"))
				return nil
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer func() { _ = file.Close() }()

			writer := csv.NewWriter(file)
			if err := writer.Write(csvHeader); err != nil {
				return fmt.Errorf("failed to write CSV header: %w", err)
			}

			bar := progressbar.NewOptions(snap.Total,
				progressbar.OptionSetDescription("Exportando coches"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			written := 0
			for {
				snap = a.session.Snapshot(ctx)
				for _, car := range snap.Listings {
					if err := writer.Write(csvRow(car)); err != nil {
						return fmt.Errorf("failed to write CSV row: %w", err)
					}
					written++
					_ = bar.Add(1)
				}

				if snap.Cursor.Page >= snap.Pages {
					break
				}
				a.session.GoToPage(snap.Cursor.Page + 1)
				if outcome := a.session.Refresh(ctx); outcome.Err != nil {
					return fmt.Errorf("failed to fetch page %d: %w", snap.Cursor.Page+1, outcome.Err)
				}
			}

			writer.Flush()
			if err := writer.Error(); err != nil {
				return fmt.Errorf("failed to flush CSV: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d coches exportados a %s", written, output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultExportName(), "output CSV path")
	cmd.Flags().StringVar(&brand, "brand", "", "filter by brand")
	cmd.Flags().StringVar(&carModel, "model", "", "filter by model")
	cmd.Flags().StringVar(&location, "location", "", "filter by province")
	cmd.Flags().StringVar(&query, "query", "", "free-text search")
	cmd.Flags().StringSliceVar(&sources, "sources", nil, "marketplace sources")
	cmd.Flags().StringSliceVar(&fuel, "fuel", nil, "fuel types")
	cmd.Flags().IntVar(&maxPrice, "max-price", 0, "maximum price in euros")
	cmd.Flags().IntVar(&minYear, "min-year", 0, "minimum registration year")
	return cmd
}

var csvHeader = []string{
	"id", "marca", "modelo", "precio", "año", "kilometraje",
	"combustible", "cambio", "potencia", "ubicacion", "vendedor",
	"fuente", "url", "publicado",
}

func csvRow(car model.CarListing) []string {
	power := ""
	if car.Power > 0 {
		power = strconv.Itoa(car.Power)
	}
	published := ""
	if !car.ScrapedAt.IsZero() {
		published = car.ScrapedAt.Format("2006-01-02")
	}
	return []string{
		car.ID,
		car.Brand,
		car.Model,
		strconv.Itoa(car.Price),
		strconv.Itoa(car.Year),
		strconv.Itoa(car.KM),
		car.Fuel,
		car.Transmission,
		power,
		car.Location,
		car.SellerType,
		car.Source,
		car.URL,
		published,
	}
}

func defaultExportName() string {
	return fmt.Sprintf("buscar-export-%s.csv", time.Now().Format("2006-01-02"))
}
