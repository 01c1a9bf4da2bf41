package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"glance/internal/errors"
	"glance/internal/render"
	"glance/internal/tui/common"
	"glance/internal/tui/components"
	"glance/internal/tui/messages"
	"glance/internal/tui/views"
	"glance/internal/viewer"
	"glance/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// chromeRows is the number of lines around the picture: header, strip,
// status, key help and the app padding.
const chromeRows = 6

// zoomStep is one key press in scroll units.
const zoomStep = 10

// Model is the terminal browser. The viewer session is only touched from
// Update, which bubbletea runs on a single goroutine.
type Model struct {
	session *viewer.Session
	host    *render.MemoryHost

	keys KeyMap
	help help.Model

	mode   common.Mode
	width  int
	height int

	picture *components.Picture
	status  *components.StatusBar
	jump    *components.Jump

	// file size of the current image, refreshed when it changes
	sizePath string
	size     string

	// sticky error from outside the core, e.g. a stopped watcher
	notice string

	pending atomic.Bool
}

// New wraps an open session. host must be the session's texture host.
func New(session *viewer.Session, host *render.MemoryHost) *Model {
	m := &Model{
		session: session,
		host:    host,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		picture: components.NewPicture(),
		status:  components.NewStatusBar(),
		jump:    components.NewJump(),
	}
	m.sync()
	return m
}

// Attach routes loader wake-ups into p. Wake-ups coalesce until the model
// handles the RepaintMsg.
func (m *Model) Attach(p *tea.Program) {
	m.host.SetRepaintFunc(func() {
		if m.pending.CompareAndSwap(false, true) {
			go p.Send(messages.RepaintMsg{})
		}
	})
}

// Init implements tea.Model. The first repaint drains results that landed
// before the program started.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(repaint, m.status.Tick(), waitForBatch(m.session.Events()))
}

func waitForBatch(events <-chan watch.Batch) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		b, ok := <-events
		if !ok {
			return messages.ErrorMsg{Err: errors.New("folder watch stopped")}
		}
		return messages.WatchMsg{Batch: b}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case messages.RepaintMsg:
		m.pending.Store(false)
		if _, more := m.session.Tick(); more {
			cmds = append(cmds, repaint)
		}

	case messages.WatchMsg:
		m.session.Apply(msg.Batch)
		cmds = append(cmds, waitForBatch(m.session.Events()))

	case messages.ErrorMsg:
		m.notice = msg.Err.Error()

	case tea.KeyMsg:
		if cmd := m.handleKeyMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	default:
		cmds = append(cmds, m.status.Update(msg))
		if m.mode == common.Jump {
			cmds = append(cmds, m.jump.Update(msg))
		}
	}

	m.sync()
	return m, tea.Batch(cmds...)
}

func repaint() tea.Msg { return messages.RepaintMsg{} }

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.mode == common.Jump {
		return m.handleJumpKeys(msg)
	}

	core := m.session.Core
	switch {
	case key.Matches(msg, m.keys.Next):
		core.NextImage()
	case key.Matches(msg, m.keys.Prev):
		core.PrevImage()
	case key.Matches(msg, m.keys.First):
		core.JumpTo(0)
	case key.Matches(msg, m.keys.Last):
		core.JumpTo(core.Len() - 1)
	case key.Matches(msg, m.keys.ZoomIn):
		core.UpdateZoom(zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		core.UpdateZoom(-zoomStep)
	case key.Matches(msg, m.keys.Fit):
		core.FitToView()
	case key.Matches(msg, m.keys.Refresh):
		core.Refresh()
	case key.Matches(msg, m.keys.Jump):
		if core.Len() == 0 {
			return nil
		}
		m.mode = common.Jump
		return m.jump.Open(core.Paths())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (m *Model) handleJumpKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeJump()
		return nil
	case key.Matches(msg, m.keys.Accept):
		if match, ok := m.jump.Selected(); ok {
			m.session.Core.JumpTo(match.Index)
		}
		m.closeJump()
		return nil
	}
	return m.jump.Update(msg)
}

func (m *Model) closeJump() {
	m.jump.Close()
	m.mode = common.Normal
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.picture.SetSize(width-2, height-chromeRows)
	m.jump.SetWidth(width)
	m.help.Width = width - 2
	w, h := m.picture.Viewport()
	m.session.Core.SetViewport(w, h)
	m.session.Core.FitToView()
}

// sync copies the core state that the views need.
func (m *Model) sync() {
	core := m.session.Core
	m.status.SetLoading(core.IsLoading())
	if err := core.Error(); err != "" {
		m.status.SetError(err)
	} else {
		m.status.SetError(m.notice)
	}

	path, ok := core.Current()
	if !ok {
		m.sizePath, m.size = "", ""
		if core.Dir() != "" {
			m.status.SetText("no images in " + core.Dir())
		} else {
			m.status.SetText("")
		}
		return
	}
	if path != m.sizePath {
		m.sizePath, m.size = path, ""
		if info, err := os.Stat(path); err == nil {
			m.size = humanize.Bytes(uint64(info.Size()))
		}
	}

	ls := m.session.Loader.Stats()
	queued := ls.Primary.Pending() + ls.Background.Pending()
	m.status.SetText(statusText(core.Zoom(), core.CacheStats(), queued, core.IsLoading()))
}

// statusText is the zoom, cache occupancy and decode queue summary.
func statusText(zoom float64, stats viewer.CacheStats, queued int64, loading bool) string {
	text := fmt.Sprintf("%.0f%%  cache %d/%d", zoom*100, stats.Full, stats.Thumbnails)
	if queued > 0 {
		text += fmt.Sprintf("  queued %d", queued)
	}
	if loading {
		text = "loading  " + text
	}
	return text
}

// Mode implements common.ModelReader
func (m *Model) Mode() common.Mode { return m.mode }

func (m *Model) ShowHelp() bool { return m.help.ShowAll }

func (m *Model) Width() int { return m.width }

// Header is the position, name, size and dimensions of the current image.
func (m *Model) Header() string {
	core := m.session.Core
	path, ok := core.Current()
	if !ok {
		return "glance"
	}
	parts := []string{
		fmt.Sprintf("%d/%d", core.Index()+1, core.Len()),
		filepath.Base(path),
	}
	if m.size != "" {
		parts = append(parts, m.size)
	}
	if tex := core.CurrentTexture(); tex != nil && core.ShowingFullResolution() {
		w, h := tex.Size()
		parts = append(parts, fmt.Sprintf("%dx%d", w, h))
	}
	header := strings.Join(parts, "  ")
	if m.width > 2 {
		header = runewidth.Truncate(header, m.width-2, "…")
	}
	return header
}

// Picture renders the current texture, or the placeholder thumbnail fitted
// to the area while the full image loads.
func (m *Model) Picture() string {
	core := m.session.Core
	pixels, ok := render.Pixels(core.CurrentTexture())
	if !ok {
		switch core.Phase() {
		case viewer.Failed:
			return m.picture.Message(filepath.Base(m.sizePath) + ": " + core.Error())
		case viewer.Loading:
			return m.picture.Message("loading…")
		}
		return m.picture.Message("no image")
	}
	zoom := core.Zoom()
	if !core.ShowingFullResolution() {
		w, h := m.picture.Viewport()
		zoom = min(w/float64(pixels.Width), h/float64(pixels.Height))
	}
	return m.picture.View(pixels, zoom)
}

func (m *Model) Strip() string {
	return components.RenderStrip(m.session.Core.PreviewStrip())
}

func (m *Model) Status() string {
	return m.status.View()
}

func (m *Model) JumpList() string {
	return m.jump.View()
}

// KeyHelp is the key summary, or the full table when help is toggled.
func (m *Model) KeyHelp() string {
	if m.mode == common.Jump {
		return m.help.View(jumpHelp{m.keys})
	}
	return m.help.View(m.keys)
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}
