// Package viewer holds the state machine behind the project image viewer.
package viewer

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
)

// Zoom bounds and step
const (
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 0.25
	DefaultZoom = 1.0
)

// RotationStep is the angle added by a single rotate
const RotationStep = 90

// State is the viewer over a list of n images.
// Open gates keyboard handling; Loading is set on every image change until the caller marks it loaded.
type State struct {
	Index    int
	Zoom     float64
	Rotation int
	Loading  bool
	Open     bool

	n int
}

// New returns an open viewer over n images starting at initial (wrapped into range)
func New(n, initial int) *State {
	s := &State{n: n, Zoom: DefaultZoom, Open: true, Loading: n > 0}
	s.Index = s.wrap(initial)
	return s
}

// Len returns the number of images
func (s *State) Len() int { return s.n }

func (s *State) wrap(i int) int {
	if s.n <= 0 {
		return 0
	}
	return ((i % s.n) + s.n) % s.n
}

// Next moves to the following image, wrapping at the end, and resets the view
func (s *State) Next() {
	s.goTo(s.Index + 1)
}

// Previous moves to the preceding image, wrapping at the start, and resets the view
func (s *State) Previous() {
	s.goTo(s.Index - 1)
}

func (s *State) goTo(i int) {
	if s.n == 0 {
		return
	}
	s.Index = s.wrap(i)
	s.Reset()
	s.Loading = true
}

// ZoomIn adds one step up to MaxZoom
func (s *State) ZoomIn() {
	s.Zoom = math.Min(s.Zoom+ZoomStep, MaxZoom)
}

// ZoomOut removes one step down to MinZoom
func (s *State) ZoomOut() {
	s.Zoom = math.Max(s.Zoom-ZoomStep, MinZoom)
}

// Rotate turns the image a quarter clockwise
func (s *State) Rotate() {
	s.Rotation = (s.Rotation + RotationStep) % 360
}

// Reset restores the default zoom and rotation
func (s *State) Reset() {
	s.Zoom = DefaultZoom
	s.Rotation = 0
}

// Loaded clears the loading flag
func (s *State) Loaded() {
	s.Loading = false
}

// Close marks the viewer closed; further keys are ignored
func (s *State) Close() {
	s.Open = false
}

// Action is the effect of a key press
type Action int

const (
	ActionNone Action = iota
	ActionClose
	ActionNext
	ActionPrevious
	ActionZoomIn
	ActionZoomOut
	ActionRotate
)

var actionNames = map[Action]string{
	ActionNone:     "none",
	ActionClose:    "close",
	ActionNext:     "next",
	ActionPrevious: "previous",
	ActionZoomIn:   "zoom-in",
	ActionZoomOut:  "zoom-out",
	ActionRotate:   "rotate",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// HandleKey applies the keyboard binding for key (a DOM KeyboardEvent.key value)
// and returns what it did. Keys are ignored while the viewer is closed.
func (s *State) HandleKey(key string) Action {
	if !s.Open {
		return ActionNone
	}
	switch key {
	case "Escape":
		s.Close()
		return ActionClose
	case "ArrowRight":
		s.Next()
		return ActionNext
	case "ArrowLeft":
		s.Previous()
		return ActionPrevious
	case "+", "=":
		s.ZoomIn()
		return ActionZoomIn
	case "-":
		s.ZoomOut()
		return ActionZoomOut
	case "r", "R":
		s.Rotate()
		return ActionRotate
	}
	return ActionNone
}

// Transform is the CSS transform for the current zoom and rotation
func (s *State) Transform() string {
	return fmt.Sprintf("scale(%s) rotate(%ddeg)", formatZoom(s.Zoom), s.Rotation)
}

// ZoomPercent is the zoom as a rounded percentage
func (s *State) ZoomPercent() int {
	return int(math.Round(s.Zoom * 100))
}

// whitespaceRun matches the runs DownloadFilename collapses to one underscore
var whitespaceRun = regexp.MustCompile(`\s+`)

// DownloadFilename derives a file name from an image description.
// Every whitespace run, leading and trailing ones included, becomes a single "_".
func DownloadFilename(description string) string {
	if description == "" {
		return "image.png"
	}
	return whitespaceRun.ReplaceAllString(description, "_") + ".png"
}

// Query encodes the state as URL parameters so each control can be a plain link
func (s *State) Query() url.Values {
	v := url.Values{}
	v.Set("image", strconv.Itoa(s.Index))
	v.Set("zoom", formatZoom(s.Zoom))
	v.Set("rot", strconv.Itoa(s.Rotation))
	return v
}

// FromQuery rebuilds a viewer over n images from URL parameters.
// Out-of-range values are wrapped or clamped; unparsable values fall back to defaults.
func FromQuery(n int, v url.Values) *State {
	index, _ := strconv.Atoi(v.Get("image"))
	s := New(n, index)

	if z, err := strconv.ParseFloat(v.Get("zoom"), 64); err == nil && !math.IsNaN(z) && !math.IsInf(z, 0) {
		z = math.Round(z/ZoomStep) * ZoomStep
		s.Zoom = math.Min(math.Max(z, MinZoom), MaxZoom)
	}
	if r, err := strconv.Atoi(v.Get("rot")); err == nil {
		r = (r / RotationStep) * RotationStep
		s.Rotation = ((r % 360) + 360) % 360
	}
	return s
}

func formatZoom(z float64) string {
	return strconv.FormatFloat(z, 'f', -1, 64)
}

// Clone returns an independent copy, used to build the link for each control
func (s *State) Clone() *State {
	c := *s
	return &c
}
