package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode selects when log prefixes are colored
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode accepts auto, on and off, plus the boolean spellings
// git-buildpackage allows for on and off.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "on", "yes", "true", "1", "always":
		return ColorOn, nil
	case "off", "no", "false", "0", "never":
		return ColorOff, nil
	}
	return "", fmt.Errorf("invalid color mode %q (expected auto, on or off)", s)
}

// colorProfile decides the color profile for w
func colorProfile(mode ColorMode, w io.Writer) termenv.Profile {
	switch mode {
	case ColorOn:
		return termenv.ANSI
	case ColorOff:
		return termenv.Ascii
	}

	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return termenv.Ascii
	}
	if termenv.EnvNoColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Level colors as used by git-buildpackage
var (
	debugColor   = lipgloss.Color("4")
	infoColor    = lipgloss.Color("2")
	warningColor = lipgloss.Color("3")
	errorColor   = lipgloss.Color("1")
)

// prefixStyles renders the "gbp:<level>:" prefixes for one writer
type prefixStyles struct {
	debug, info, warning, error lipgloss.Style
}

func newPrefixStyles(w io.Writer, mode ColorMode) prefixStyles {
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(colorProfile(mode, w))
	style := func(c lipgloss.Color) lipgloss.Style {
		return renderer.NewStyle().Foreground(c).Bold(true)
	}
	return prefixStyles{
		debug:   style(debugColor),
		info:    style(infoColor),
		warning: style(warningColor),
		error:   style(errorColor),
	}
}
