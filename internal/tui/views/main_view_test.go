package views

import (
	"testing"

	"glance/internal/tui/common"
	"glance/pkg/testutils"

	"github.com/stretchr/testify/assert"
)

type mockModel struct {
	mode     common.Mode
	showHelp bool
	width    int
	header   string
	picture  string
	strip    string
	status   string
	jump     string
}

func (m *mockModel) KeyHelp() string {
	if m.showHelp {
		return "? toggle help  / jump by file name  r rescan folder"
	}
	return "q quit"
}

func (m *mockModel) Mode() common.Mode { return m.mode }
func (m *mockModel) ShowHelp() bool    { return m.showHelp }
func (m *mockModel) Width() int        { return m.width }
func (m *mockModel) Header() string    { return m.header }
func (m *mockModel) Picture() string   { return m.picture }
func (m *mockModel) Strip() string     { return m.strip }
func (m *mockModel) Status() string    { return m.status }
func (m *mockModel) JumpList() string  { return m.jump }

func TestRenderMainView(t *testing.T) {
	base := func() *mockModel {
		return &mockModel{
			width:   80,
			header:  "2/5  beach.png",
			picture: "PICTURE",
			strip:   "STRIP",
			status:  "100%",
			jump:    "/for\n> forest.png",
		}
	}

	tests := []struct {
		name     string
		model    func() *mockModel
		contains []string
		excludes []string
	}{
		{
			name:     "normal mode",
			model:    base,
			contains: []string{"2/5  beach.png", "PICTURE", "STRIP", "100%", "q quit"},
			excludes: []string{"forest.png", "jump by file name"},
		},
		{
			name: "jump mode",
			model: func() *mockModel {
				m := base()
				m.mode = common.Jump
				return m
			},
			contains: []string{"> forest.png", "STRIP"},
			excludes: []string{"PICTURE"},
		},
		{
			name: "help",
			model: func() *mockModel {
				m := base()
				m.showHelp = true
				return m
			},
			contains: []string{"jump by file name", "rescan folder"},
			excludes: []string{"q quit"},
		},
		{
			name: "empty strip",
			model: func() *mockModel {
				m := base()
				m.strip = ""
				return m
			},
			contains: []string{"PICTURE", "100%"},
			excludes: []string{"STRIP"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testutils.StripANSI(RenderMainView(tt.model()))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
