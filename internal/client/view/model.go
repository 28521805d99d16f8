// Package view es la interfaz de terminal del catálogo: lista filtrable, formularios de alta y
// edición, cambio de tema y el último aviso del canal de difusión.
package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhoicas/catalog-api/internal/client/notices"
	"github.com/jhoicas/catalog-api/internal/client/state"
)

// Mensajes internos
type (
	opDoneMsg      struct{ err error }
	noticeMsg      notices.Notice
	noticesDoneMsg struct{}
	sentMsg        struct {
		text string
		err  error
	}
)

// Relay publica mensajes en el canal de difusión.
type Relay interface {
	Send(text string) error
	Connected() bool
}

// Model es el modelo bubbletea. Todo el estado compartido vive en el Store.
type Model struct {
	ctx     context.Context
	store   *state.Store
	api     state.CatalogAPI
	notices <-chan notices.Notice
	relay   Relay

	cursor  int
	form    *form
	compose *textinput.Model
	sent    string
	notice  *notices.Notice
	width   int
}

// New construye la vista. relay y noticeCh pueden ser nil si no hay canal de difusión.
func New(ctx context.Context, store *state.Store, api state.CatalogAPI, relay Relay, noticeCh <-chan notices.Notice) Model {
	return Model{
		ctx:     ctx,
		store:   store,
		api:     api,
		relay:   relay,
		notices: noticeCh,
	}
}

// Init carga el catálogo y empieza a escuchar avisos.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.waitNotice())
}

// Update procesa teclas y resultados de operaciones.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case opDoneMsg:
		m.clampCursor()
		return m, nil

	case noticeMsg:
		n := notices.Notice(msg)
		m.notice = &n
		m.clampCursor()
		cmds := []tea.Cmd{m.waitNotice()}
		if strings.HasPrefix(n.Text, "product.") {
			cmds = append(cmds, m.fetchCmd())
		}
		return m, tea.Batch(cmds...)

	case noticesDoneMsg:
		m.notices = nil
		return m, nil

	case sentMsg:
		if msg.err != nil {
			m.sent = "No enviado: " + msg.err.Error()
		} else {
			m.sent = "Enviado: " + msg.text
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.compose != nil {
			return m.updateCompose(msg)
		}
		return m.updateList(msg)
	}

	if m.form != nil {
		return m, m.form.update(msg)
	}
	if m.compose != nil {
		return m.updateCompose(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// el store puede haber cambiado entre pulsaciones
	m.clampCursor()
	visible := m.store.Visible()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "f":
		m.store.Dispatch(state.SetCategory{Category: nextCategory(m.store.State())})
		m.cursor = 0
	case "t":
		m.store.Dispatch(state.ToggleTheme{})
	case "r":
		return m, m.fetchCmd()
	case "a":
		m.form = newForm()
		return m, m.form.focusCmd()
	case "m":
		if m.relay == nil {
			return m, nil
		}
		in := textinput.New()
		in.Placeholder = "Mensaje para el canal"
		in.Prompt = "› "
		in.CharLimit = 256
		in.Width = 48
		m.compose = &in
		m.sent = ""
		return m, m.compose.Focus()
	case "e":
		if m.cursor >= len(visible) {
			return m, nil
		}
		m.form = newEditForm(visible[m.cursor])
		return m, m.form.focusCmd()
	case "d":
		if m.cursor >= len(visible) {
			return m, nil
		}
		id := visible[m.cursor].ID
		return m, func() tea.Msg {
			return opDoneMsg{err: state.DeleteProduct(m.ctx, m.store, m.api, id)}
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil
	case "tab", "down":
		return m, m.form.move(1)
	case "shift+tab", "up":
		return m, m.form.move(-1)
	case "enter":
		return m.submit()
	}
	return m, m.form.update(msg)
}

// updateCompose edita el mensaje para el canal; enter lo envía y esc lo descarta.
func (m Model) updateCompose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.compose = nil
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.compose.Value())
			m.compose = nil
			if text == "" {
				return m, nil
			}
			relay := m.relay
			return m, func() tea.Msg {
				return sentMsg{text: text, err: relay.Send(text)}
			}
		}
	}
	in, cmd := m.compose.Update(msg)
	m.compose = &in
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	f := m.form
	if f.editing() {
		req, err := f.updateRequest()
		if err != nil {
			f.err = err.Error()
			return m, nil
		}
		m.form = nil
		id := f.editID
		return m, func() tea.Msg {
			return opDoneMsg{err: state.UpdateProduct(m.ctx, m.store, m.api, id, req)}
		}
	}

	req, err := f.createRequest()
	if err != nil {
		f.err = err.Error()
		return m, nil
	}
	m.form = nil
	return m, func() tea.Msg {
		return opDoneMsg{err: state.AddProduct(m.ctx, m.store, m.api, req)}
	}
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: state.FetchProducts(m.ctx, m.store, m.api)}
	}
}

func (m Model) waitNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	ch := m.notices
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return noticesDoneMsg{}
		}
		return noticeMsg(n)
	}
}

func (m *Model) clampCursor() {
	n := len(m.store.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextCategory avanza el filtro: Todas → cada categoría del catálogo → Todas.
func nextCategory(st state.State) string {
	options := append([]string{state.AllCategories}, state.Categories(st)...)
	for i, c := range options {
		if c == st.Filter.Category {
			return options[(i+1)%len(options)]
		}
	}
	return state.AllCategories
}

// View dibuja la pantalla completa.
func (m Model) View() string {
	st := m.store.State()
	s := StylesFor(st.Theme.Mode)
	var b strings.Builder

	b.WriteString(s.Title.Render("Catálogo de productos"))
	b.WriteString("\n")

	filter := st.Filter.Category
	if filter == state.AllCategories {
		filter = "Todas"
	}
	b.WriteString(fmt.Sprintf("%s %s   %s %s",
		s.Label.Render("Categoría:"), filter,
		s.Label.Render("Tema:"), st.Theme.Mode))
	if m.relay != nil {
		status := "desconectado"
		if m.relay.Connected() {
			status = "conectado"
		}
		b.WriteString(fmt.Sprintf("   %s %s", s.Label.Render("Canal:"), status))
	}
	b.WriteString("\n\n")

	switch st.Products.Status {
	case state.StatusLoading:
		b.WriteString(s.Muted.Render("Cargando productos..."))
		b.WriteString("\n")
	case state.StatusFailed:
		b.WriteString(s.Error.Render("Error: " + st.Products.Error))
		b.WriteString("\n")
	default:
		if st.Products.Error != "" {
			b.WriteString(s.Error.Render("Error: " + st.Products.Error))
			b.WriteString("\n")
		}
	}

	visible := state.Visible(st)
	if len(visible) == 0 && st.Products.Status == state.StatusSucceeded {
		b.WriteString(s.Muted.Render("  Sin productos"))
		b.WriteString("\n")
	}
	for i, p := range visible {
		line := fmt.Sprintf("%s - %s - Categorías: %s", p.Name, p.Price.String(), strings.Join(p.Categories, ", "))
		if i == m.cursor && m.form == nil && m.compose == nil {
			b.WriteString(s.Selected.Render("> " + line))
		} else {
			b.WriteString(s.Item.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.form != nil {
		b.WriteString("\n")
		b.WriteString(m.form.view(s))
		b.WriteString("\n")
	}

	if m.compose != nil {
		b.WriteString("\n")
		b.WriteString(s.Form.Render(s.Label.Render("Mensaje") + "\n" + m.compose.View()))
		b.WriteString("\n")
	}
	if m.sent != "" {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(m.sent))
		b.WriteString("\n")
	}

	if m.notice != nil {
		b.WriteString("\n")
		b.WriteString(s.Notice.Render(fmt.Sprintf("Aviso (%s): %s", m.notice.At.Format("15:04:05"), m.notice.Text)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Muted.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	keys := "↑/↓ mover · f filtro · t tema · a añadir · e editar · d eliminar · r recargar"
	if m.relay != nil {
		keys += " · m mensaje"
	}
	return keys + " · q salir"
}
