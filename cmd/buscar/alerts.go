package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buscar-app/buscar/internal/cli"
	"github.com/buscar-app/buscar/internal/common"
	"github.com/buscar-app/buscar/internal/model"
)

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage price alerts",
		Long: `List, create and delete price alerts. Alerts are matched server-side
and notified by email; ownership is scoped to this machine's anonymous id.`,
	}

	cmd.AddCommand(alertsListCmd())
	cmd.AddCommand(alertsAddCmd())
	cmd.AddCommand(alertsDeleteCmd())
	return cmd
}

func alertsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your active alerts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			userID, err := a.store.UserID(ctx)
			if err != nil {
				return err
			}

			alerts, err := a.client.ListAlerts(ctx, userID)
			if err != nil {
				// Fall back to the local mirror so the user still sees
				// something while the backend is down.
				cached, cacheErr := a.store.CachedAlerts(ctx)
				if cacheErr != nil || cached == nil {
					return fmt.Errorf("failed to fetch alerts: %w", err)
				}
				fmt.Println(cli.FormatWarning("Sin conexión: mostrando alertas guardadas localmente"))
				printAlerts(cached)
				return nil
			}

			if err := a.store.CacheAlerts(ctx, alerts); err != nil {
				fmt.Println(cli.FormatWarning("No se pudo actualizar la caché local de alertas"))
			}
			printAlerts(alerts)
			return nil
		},
	}
}

func alertsAddCmd() *cobra.Command {
	var (
		email    string
		brand    string
		carModel string
		fuel     string
		maxPrice int
		minYear  int
		maxKM    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new price alert",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			// Reuse the remembered email unless one was given.
			if email == "" {
				if saved, savedErr := a.store.Email(ctx); savedErr == nil {
					email = saved
				}
			}

			req, err := buildAlertRequest(email, brand, carModel, fuel, maxPrice, minYear, maxKM)
			if err != nil {
				return err
			}

			userID, err := a.store.UserID(ctx)
			if err != nil {
				return err
			}

			alert, err := a.client.CreateAlert(ctx, userID, req)
			if err != nil {
				return common.NewUserError("Error al crear la alerta", err)
			}

			if err := a.store.SetEmail(ctx, req.Email); err != nil {
				fmt.Println(cli.FormatWarning("No se pudo recordar el email"))
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Alerta creada correctamente (#%d)", alert.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "notification email (defaults to the remembered one)")
	cmd.Flags().StringVar(&brand, "brand", "", "brand to watch (required)")
	cmd.Flags().StringVar(&carModel, "model", "", "model to watch")
	cmd.Flags().StringVar(&fuel, "fuel", "", "fuel type")
	cmd.Flags().IntVar(&maxPrice, "max-price", 0, "alert when price drops below this (required)")
	cmd.Flags().IntVar(&minYear, "min-year", 0, "minimum registration year")
	cmd.Flags().IntVar(&maxKM, "max-km", 0, "maximum mileage")
	return cmd
}

func alertsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert id: %s", args[0])
			}

			a, err := initApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			reader := cli.NewReader(os.Stdin, os.Stdout)
			ok, err := reader.Confirm(ctx, "¿Seguro que quieres eliminar esta alerta?")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			userID, err := a.store.UserID(ctx)
			if err != nil {
				return err
			}
			if err := a.client.DeleteAlert(ctx, id, userID); err != nil {
				return common.NewUserError("Error al eliminar la alerta", err)
			}

			refreshAlertsCache(ctx, a, userID)
			fmt.Println(cli.FormatSuccess("Alerta eliminada"))
			return nil
		},
	}
}

// buildAlertRequest validates the boundary before anything reaches the core:
// a malformed submission never turns into a network call.
func buildAlertRequest(email, brand, carModel, fuel string, maxPrice, minYear, maxKM int) (model.AlertRequest, error) {
	var req model.AlertRequest

	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return req, fmt.Errorf("a valid --email is required")
	}
	if strings.TrimSpace(brand) == "" {
		return req, fmt.Errorf("--brand is required")
	}
	if maxPrice <= 0 {
		return req, fmt.Errorf("--max-price must be greater than zero")
	}

	req = model.AlertRequest{
		Email:    email,
		Brand:    strings.TrimSpace(brand),
		MaxPrice: maxPrice,
	}
	if carModel = strings.TrimSpace(carModel); carModel != "" {
		req.Model = &carModel
	}
	if fuel = strings.TrimSpace(fuel); fuel != "" {
		req.Fuel = &fuel
	}
	if minYear > 0 {
		req.MinYear = &minYear
	}
	if maxKM > 0 {
		req.MaxKM = &maxKM
	}
	return req, nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func printAlerts(alerts []model.PriceAlert) {
	if len(alerts) == 0 {
		fmt.Println(cli.FormatInfo("No tienes alertas activas. Crea una y te avisaremos cuando bajen los precios."))
		return
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Alertas de Precio (%d)", len(alerts))))
	for _, alert := range alerts {
		target := alert.Brand
		if alert.Model != nil {
			target += " " + *alert.Model
		} else {
			target += " (Todos)"
		}

		details := []string{"Max: " + cli.FormatEuro(alert.MaxPrice)}
		if alert.MinYear != nil {
			details = append(details, fmt.Sprintf(">%d", *alert.MinYear))
		}
		if alert.MaxKM != nil {
			details = append(details, "<"+cli.FormatKM(*alert.MaxKM))
		}
		if alert.Fuel != nil {
			details = append(details, *alert.Fuel)
		}

		fmt.Printf("  #%-4d %-30s %s\n", alert.ID,
			clip(target, 30),
			cli.SubtleStyle.Render(strings.Join(details, " · ")))
	}
}

func refreshAlertsCache(ctx context.Context, a *app, userID string) {
	alerts, err := a.client.ListAlerts(ctx, userID)
	if err != nil {
		return
	}
	_ = a.store.CacheAlerts(ctx, alerts)
}
