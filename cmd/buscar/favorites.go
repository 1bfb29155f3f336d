package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buscar-app/buscar/internal/cli"
	"github.com/buscar-app/buscar/internal/common"
	"github.com/buscar-app/buscar/internal/model"
)

func favoritesCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Show or clear your saved favorites",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			if clear {
				return clearFavorites(ctx, a)
			}

			ids, err := a.store.Favorites(ctx)
			if err != nil {
				return fmt.Errorf("failed to read favorites: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println(cli.FormatInfo("No tienes favoritos. Guarda coches para verlos más tarde."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Mis Favoritos (%d)", len(ids))))
			cars := resolveListings(ctx, a, ids)
			for _, car := range cars {
				fmt.Println(formatListingRow(car, true, false))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "remove all favorites")
	return cmd
}

func clearFavorites(ctx context.Context, a *app) error {
	reader := cli.NewReader(os.Stdin, os.Stdout)
	ok, err := reader.Confirm(ctx, "¿Eliminar todos los favoritos?")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := a.store.ClearFavorites(ctx); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	fmt.Println(cli.FormatSuccess("Favoritos eliminados"))
	return nil
}

// resolveListings fetches each stored id. A listing the backend no longer
// knows is reported and skipped; the rest still render.
func resolveListings(ctx context.Context, a *app, ids []string) []model.CarListing {
	cars := make([]model.CarListing, 0, len(ids))
	for _, id := range ids {
		car, err := a.client.GetCar(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("El coche %s ya no está disponible", id)))
			continue
		}
		if err != nil {
			fmt.Println(cli.FormatError(common.UserMessage(err)))
			continue
		}
		cars = append(cars, *car)
	}
	return cars
}
