package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buscar-app/buscar/internal/browse"
)

// commandTimeout bounds every background fetch issued by the UI.
const commandTimeout = 30 * time.Second

// fetchPage executes a ticketed listing query in the background. The ticket's
// sequence number travels with the response so the session can discard a
// completion that a newer request has already superseded.
func (m Model) fetchPage(ticket browse.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		page, err := m.fetcher.Search(ctx, ticket.Params)
		return pageLoadedMsg{seq: ticket.Seq, page: page, err: err}
	}
}

// fetchDetail loads one listing for the detail view.
func (m Model) fetchDetail(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		car, err := m.client.GetCar(ctx, id)
		return detailLoadedMsg{id: id, car: car, err: err}
	}
}

// loadBrands fetches the brand taxonomy once at startup.
func (m Model) loadBrands() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		brands, err := m.client.GetBrands(ctx)
		return brandsLoadedMsg{brands: brands, err: err}
	}
}

// expireToast clears the transient notice after a short delay.
func expireToast(id int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
