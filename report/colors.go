package report

import (
	"fmt"

	"github.com/fatih/color"
)

type ColorAttr int

const (
	HeaderColor ColorAttr = iota
	SectionColor
	KeyColor
	FieldColor
	StringColor
	NumberColor
	BoolColor
	NullColor
	IndexColor
	InsertColor
	DeleteColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	return &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			HeaderColor:  color.BlueString,
			SectionColor: color.RGB(196, 168, 128).SprintfFunc(),
			KeyColor:     color.RGB(196, 96, 16).SprintfFunc(),
			FieldColor:   color.RGB(128, 168, 196).SprintfFunc(),
			StringColor:  color.RGB(8, 196, 16).SprintfFunc(),
			NumberColor:  color.RGB(128, 216, 236).SprintfFunc(),
			BoolColor:    color.CyanString,
			NullColor:    color.RGB(168, 0, 196).SprintfFunc(),
			IndexColor:   color.RGB(96, 96, 96).SprintfFunc(),
			InsertColor:  color.GreenString,
			DeleteColor:  color.RedString,
		},
	}
}

// Color renders s with the color for a.  A nil *Colors renders s as is.
func (c *Colors) Color(a ColorAttr, s string) string {
	return c.Get(a)("%s", s)
}

func (c *Colors) Get(a ColorAttr) func(string, ...any) string {
	if c == nil {
		return colorDefault
	}
	f, ok := c.Map[a]
	if !ok {
		return c.Default
	}
	return f
}

func colorDefault(f string, args ...any) string { return fmt.Sprintf(f, args...) }
