package config

import (
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/scene"
)

// Apply pushes c's geometry settings into the package-level variables
// item.SetMinSelectableWidth and scene.HandleSize reads, the Go
// equivalent of those values living as plain Preferences fields that
// every consumer reads directly. Called once after Load/Default,
// before any PathContainer or Scene is constructed.
func Apply(c *Config) {
	item.SetMinSelectableWidth(c.PathMinSelectableWidth)
	scene.HandleSize = c.SelectionRectHandleSize
}
