package logs

import (
	"fmt"

	"github.com/atlanticdynamic/parklynx/internal/fancy"
	"github.com/charmbracelet/lipgloss/tree"
)

// String returns a string representation of the log configuration
func (lc *Config) String() string {
	return fmt.Sprintf("Log Config: format=%s, level=%s", lc.Format, lc.Level)
}

// ToTree returns a tree visualization of the log configuration
func (lc *Config) ToTree() *tree.Tree {
	t := fancy.BranchNode("Logging", "")
	t.Child(fmt.Sprintf("Format: %s", orDefault(lc.Format.String(), FormatText.String())))
	t.Child(fmt.Sprintf("Level: %s", orDefault(lc.Level.String(), LevelInfo.String())))
	return t
}

func orDefault(v, def string) string {
	if v == "" {
		return def + " (default)"
	}
	return v
}
