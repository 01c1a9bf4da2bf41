package main

import (
	"glance/internal/tui/styles"
)

func errorText(s string) string {
	return styles.Theme.Error.Render(s)
}

func titleText(s string) string {
	return styles.Theme.Title.Render(s)
}

func helpText(s string) string {
	return styles.Theme.Help.Render(s)
}
