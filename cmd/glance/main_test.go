package main

import (
	"path/filepath"
	"testing"

	"glance/internal/decode"
	"glance/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    decode.Size
		wantErr bool
	}{
		{in: "160x120", want: decode.Size{Width: 160, Height: 120}},
		{in: " 64X48 ", want: decode.Size{Width: 64, Height: 48}},
		{in: "160", wantErr: true},
		{in: "0x10", wantErr: true},
		{in: "10x-1", wantErr: true},
		{in: "axb", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanTable(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.WriteImages(t, dir, 12, 7, "a.png", "b.png")
	testutils.WriteFile(t, dir, "broken.png", []byte("nope"))

	out := testutils.StripANSI(scanTable(append(paths, filepath.Join(dir, "broken.png"))))
	assert.Contains(t, out, "a.png")
	assert.Contains(t, out, "12x7")
	assert.Contains(t, out, "broken.png")
	assert.Contains(t, out, "?")
	assert.Contains(t, out, "3 images")
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteImages(t, dir, 4, 4, "a.png")
	out := filepath.Join(dir, "thumb.png")

	root := NewRootCmd()
	root.SetArgs([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"decode", "--thumb", "2x3", "--out", out, filepath.Join(dir, "a.png"),
	})
	require.NoError(t, root.Execute())
	require.NotNil(t, cfg, "defaults are used when the file is missing")

	w, h, err := dimensions(out)
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 3, h)

	root = NewRootCmd()
	root.SetArgs([]string{"--config", filepath.Join(dir, "missing.yaml"), "scan", filepath.Join(dir, "a.png")})
	assert.Error(t, root.Execute(), "scan wants a folder")
}
