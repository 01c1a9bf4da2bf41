package components

import (
	"path/filepath"
	"sort"
	"strings"

	"glance/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-runewidth"
)

// MaxJumpResults bounds the visible match list.
const MaxJumpResults = 8

// Match is a candidate image for the jump prompt.
type Match struct {
	Index int
	Name  string
}

// Jump is a fuzzy finder over the file names of the open folder.
type Jump struct {
	input   textinput.Model
	names   []string
	matches []Match
	cursor  int
	width   int
}

func NewJump() *Jump {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "file name"
	ti.CharLimit = 256
	return &Jump{input: ti}
}

// Open resets the prompt for the given paths.
func (j *Jump) Open(paths []string) tea.Cmd {
	j.names = make([]string, len(paths))
	for i, p := range paths {
		j.names[i] = filepath.Base(p)
	}
	j.input.SetValue("")
	j.cursor = 0
	j.filter()
	return j.input.Focus()
}

func (j *Jump) Close() {
	j.input.Blur()
}

func (j *Jump) SetWidth(width int) {
	j.width = width
}

// Update handles typing and cursor movement.
func (j *Jump) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "ctrl+p":
			if j.cursor > 0 {
				j.cursor--
			}
			return nil
		case "down", "ctrl+n":
			if j.cursor < len(j.matches)-1 {
				j.cursor++
			}
			return nil
		}
	}
	before := j.input.Value()
	var cmd tea.Cmd
	j.input, cmd = j.input.Update(msg)
	if j.input.Value() != before {
		j.cursor = 0
		j.filter()
	}
	return cmd
}

func (j *Jump) filter() {
	query := j.input.Value()
	j.matches = j.matches[:0]
	if query == "" {
		for i, name := range j.names {
			j.matches = append(j.matches, Match{Index: i, Name: name})
		}
		return
	}
	ranks := fuzzy.RankFindNormalizedFold(query, j.names)
	sort.Stable(ranks)
	for _, r := range ranks {
		j.matches = append(j.matches, Match{Index: r.OriginalIndex, Name: r.Target})
	}
}

// Selected is the highlighted match.
func (j *Jump) Selected() (Match, bool) {
	if j.cursor < 0 || j.cursor >= len(j.matches) {
		return Match{}, false
	}
	return j.matches[j.cursor], true
}

func (j *Jump) Matches() []Match {
	return j.matches
}

func (j *Jump) View() string {
	var sb strings.Builder
	sb.WriteString(j.input.View())
	for i, m := range j.matches {
		if i == MaxJumpResults {
			sb.WriteString("\n" + styles.Theme.Help.Render("…"))
			break
		}
		name := m.Name
		if j.width > 4 {
			name = runewidth.Truncate(name, j.width-4, "…")
		}
		sb.WriteString("\n")
		if i == j.cursor {
			sb.WriteString(styles.Theme.Selected.Render("> " + name))
		} else {
			sb.WriteString(styles.Theme.Unselected.Render("  " + name))
		}
	}
	if len(j.matches) == 0 {
		sb.WriteString("\n" + styles.Theme.Warning.Render("no match"))
	}
	return sb.String()
}
