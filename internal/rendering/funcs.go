package rendering

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"
)

// AssetPrefix is where files referenced by the content document are served
const AssetPrefix = "/assets/"

// FuncMap returns the helpers available to every page template
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"asset":      AssetURL,
		"skillWidth": SkillWidth,
		"delay":      TransitionDelay,
		"ms":         Milliseconds,
		"join":       strings.Join,
		"lower":      strings.ToLower,
	}
}

// AssetURL maps a content path onto the asset route. Absolute URLs pass through.
func AssetURL(path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "//"):
		return path
	}
	return AssetPrefix + strings.TrimPrefix(path, "/")
}

// SkillWidth is the style of a skill bar filled to level percent, clamped to [0, 100]
func SkillWidth(level int) template.CSS {
	level = min(max(level, 0), 100)
	return template.CSS(fmt.Sprintf("width: %d%%", level))
}

// TransitionDelay is the style that delays a card's entrance by d
func TransitionDelay(d time.Duration) template.CSS {
	return template.CSS(fmt.Sprintf("transition-delay: %dms", d.Milliseconds()))
}

// Milliseconds formats d as fractional milliseconds for data attributes
func Milliseconds(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}
