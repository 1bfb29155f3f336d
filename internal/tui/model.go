// Package tui implements the interactive browse UI. It renders from session
// snapshots and only mutates core state through typed intents and preference
// store calls; every fetch re-enters the update loop as a message carrying
// its ticket sequence number.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buscar-app/buscar/internal/api"
	"github.com/buscar-app/buscar/internal/browse"
	"github.com/buscar-app/buscar/internal/common"
	"github.com/buscar-app/buscar/internal/model"
	"github.com/buscar-app/buscar/internal/prefs"
	"github.com/buscar-app/buscar/internal/refdata"
)

// State represents the current view of the TUI.
type State int

// View states.
const (
	StateBrowse State = iota
	StateDetail
	StateHelp
)

// sortCycle is the order the sort key steps through.
var sortCycle = []browse.SortOrder{
	browse.SortDateDesc,
	browse.SortPriceAsc,
	browse.SortPriceDesc,
	browse.SortYearDesc,
	browse.SortKMAsc,
}

// Config wires the core into the UI.
type Config struct {
	Session *browse.Session
	Store   *prefs.Store
	Client  *api.Client
}

// Model holds the browse UI state.
type Model struct {
	session *browse.Session
	store   *prefs.Store
	client  *api.Client
	fetcher browse.Fetcher

	snap        browse.Snapshot
	detail      *model.CarListing
	brands      []model.Brand
	searchInput textinput.Model
	spinner     spinner.Model
	keymap      KeyMap

	toast    string
	toastID  int
	favCount int
	cmpCount int

	selected   int
	width      int
	height     int
	state      State
	searchMode bool
	quitting   bool
}

// newModel creates the initial model.
func newModel(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "marca, modelo, palabra clave..."
	input.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		session:     cfg.Session,
		store:       cfg.Store,
		client:      cfg.Client,
		fetcher:     cfg.Client,
		brands:      refdata.StaticBrands(),
		searchInput: input,
		spinner:     sp,
		keymap:      DefaultKeyMap(),
		state:       StateBrowse,
	}
	m.refreshSnapshot()
	m.refreshBadges()
	return m
}

// Init starts the spinner, loads the brand taxonomy and issues the first
// listing fetch.
func (m Model) Init() tea.Cmd {
	ticket := m.session.BeginFetch()
	return tea.Batch(
		m.spinner.Tick,
		m.loadBrands(),
		m.fetchPage(ticket),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageLoadedMsg:
		outcome := m.session.Apply(msg.seq, msg.page, msg.err)
		if outcome.Stale {
			return m, nil
		}
		m.refreshSnapshot()
		m.clampSelection()
		if outcome.Notice != "" {
			return m, m.showToast(outcome.Notice)
		}
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			// The detail view never opens on a failed fetch.
			return m, m.showToast("No se pudo cargar el detalle del coche")
		}
		m.detail = msg.car
		m.state = StateDetail
		return m, nil

	case brandsLoadedMsg:
		// A failure here is not worth a toast because the first listing
		// fetch reports it too; the bundled taxonomy stays in effect.
		if msg.err == nil {
			m.brands = refdata.MergeBrands(msg.brands)
		}
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.searchMode {
		return m.handleSearchKey(msg)
	}

	switch m.state {
	case StateDetail, StateHelp:
		if key.Matches(msg, m.keymap.Back) || key.Matches(msg, m.keymap.Quit) {
			m.state = StateBrowse
			m.detail = nil
		}
		return m, nil
	case StateBrowse:
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.state = StateHelp
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if m.selected < len(m.snap.Listings)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keymap.PrevPage):
		if m.snap.Cursor.Page > 1 {
			return m, m.dispatch(browse.GoToPageIntent{Page: m.snap.Cursor.Page - 1})
		}
		return m, nil

	case key.Matches(msg, m.keymap.NextPage):
		if m.snap.Pages == 0 || m.snap.Cursor.Page < m.snap.Pages {
			return m, m.dispatch(browse.GoToPageIntent{Page: m.snap.Cursor.Page + 1})
		}
		return m, nil

	case key.Matches(msg, m.keymap.Home):
		return m, m.dispatch(browse.GoToPageIntent{Page: 1})

	case key.Matches(msg, m.keymap.Sort):
		return m, m.dispatch(browse.SetSortIntent{Sort: m.nextSort()})

	case key.Matches(msg, m.keymap.Clear):
		return m, m.dispatch(browse.ClearFiltersIntent{ResetCategory: true})

	case key.Matches(msg, m.keymap.Refresh):
		ticket := m.session.BeginFetch()
		m.refreshSnapshot()
		return m, m.fetchPage(ticket)

	case key.Matches(msg, m.keymap.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.snap.Criteria.Search)
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keymap.Select):
		if car := m.selectedCar(); car != nil {
			return m, m.fetchDetail(car.ID)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Favorite):
		return m, m.toggleFavorite()

	case key.Matches(msg, m.keymap.Compare):
		return m, m.toggleCompare()
	}

	// Number keys toggle browse categories.
	if n := categoryIndex(msg.String()); n >= 0 && n < len(refdata.Categories) {
		return m, m.dispatch(browse.SelectCategoryIntent{Tag: refdata.Categories[n].Tag})
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchMode = false
		m.searchInput.Blur()
		term := m.searchInput.Value()
		return *m, m.dispatch(browse.SetFiltersIntent{
			Update: browse.FilterUpdate{Search: &term},
		})
	case tea.KeyEsc:
		m.searchMode = false
		m.searchInput.Blur()
		return *m, nil
	default:
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return *m, cmd
}

// dispatch hands an intent to the session and issues the follow-up fetch when
// the operation calls for one.
func (m *Model) dispatch(intent browse.Intent) tea.Cmd {
	if !m.session.Dispatch(intent) {
		m.refreshSnapshot()
		return nil
	}
	ticket := m.session.BeginFetch()
	m.refreshSnapshot()
	return m.fetchPage(ticket)
}

func (m *Model) toggleFavorite() tea.Cmd {
	car := m.selectedCar()
	if car == nil {
		return nil
	}
	ctx, cancel := storeContext()
	defer cancel()

	added, err := m.store.ToggleFavorite(ctx, car.ID)
	if err != nil {
		return m.showToast("Error guardando favorito")
	}
	m.refreshSnapshot()
	m.refreshBadges()
	if added {
		return m.showToast("Añadido a favoritos")
	}
	return m.showToast("Eliminado de favoritos")
}

func (m *Model) toggleCompare() tea.Cmd {
	car := m.selectedCar()
	if car == nil {
		return nil
	}
	ctx, cancel := storeContext()
	defer cancel()

	added, err := m.store.ToggleCompare(ctx, car.ID)
	switch {
	case errors.Is(err, common.ErrCompareListFull):
		// Capacity rejection must reach the user, never pass silently.
		return m.showToast("Máximo 4 coches para comparar")
	case err != nil:
		return m.showToast("Error actualizando el comparador")
	}
	m.refreshSnapshot()
	m.refreshBadges()
	if added {
		return m.showToast("Añadido al comparador")
	}
	return m.showToast("Eliminado del comparador")
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastID++
	return expireToast(m.toastID)
}

func (m *Model) refreshSnapshot() {
	ctx, cancel := storeContext()
	defer cancel()
	m.snap = m.session.Snapshot(ctx)
}

func (m *Model) refreshBadges() {
	ctx, cancel := storeContext()
	defer cancel()
	if favs, err := m.store.Favorites(ctx); err == nil {
		m.favCount = len(favs)
	}
	if cmp, err := m.store.CompareList(ctx); err == nil {
		m.cmpCount = len(cmp)
	}
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.snap.Listings) {
		m.selected = len(m.snap.Listings) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) selectedCar() *model.CarListing {
	if m.selected < 0 || m.selected >= len(m.snap.Listings) {
		return nil
	}
	return &m.snap.Listings[m.selected]
}

func (m *Model) nextSort() browse.SortOrder {
	for i, o := range sortCycle {
		if o == m.snap.Cursor.Sort {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return browse.SortDateDesc
}

// categoryIndex maps the digit keys 1..8 to a category slot, -1 otherwise.
func categoryIndex(s string) int {
	if len(s) != 1 || s[0] < '1' || s[0] > '8' {
		return -1
	}
	return int(s[0] - '1')
}

// storeContext bounds the synchronous preference store calls made inside the
// update loop.
func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}
