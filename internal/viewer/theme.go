package viewer

import (
	"fmt"
	"image"
	"io"
	"log"

	// Decoders for project screenshots
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Theme picks the control background contrasting with the displayed image
type Theme int

const (
	// ThemeFallback is used when the image cannot be sampled
	ThemeFallback Theme = iota
	// ThemeLight means the image centre is light, so controls go dark
	ThemeLight
	// ThemeDark means the image centre is dark, so controls go light
	ThemeDark
)

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	case ThemeFallback:
		return "fallback"
	}
	return fmt.Sprintf("Theme(%d)", int(t))
}

// Classes returns the control background classes for the theme
func (t Theme) Classes() string {
	switch t {
	case ThemeLight:
		return "bg-black/30 backdrop-blur-md"
	case ThemeDark:
		return "bg-white/20 backdrop-blur-md"
	}
	return "bg-white/10 backdrop-blur-sm"
}

// Sampling geometry: the image is scaled to sampleSize square and the
// centre [sampleFrom, sampleTo) square is averaged.
const (
	sampleSize = 100
	sampleFrom = 30
	sampleTo   = 70

	lightThreshold = 128.0
)

// Luminance returns the perceptual luminance of an 8-bit RGB average
func Luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// SampleLuminance scales img to 100x100, averages the centre 40x40 pixels and
// classifies the result. An empty image yields ThemeFallback.
func SampleLuminance(img image.Image) Theme {
	if img == nil || img.Bounds().Empty() {
		return ThemeFallback
	}

	canvas := image.NewRGBA(image.Rect(0, 0, sampleSize, sampleSize))
	draw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), img, img.Bounds(), draw.Src, nil)

	var r, g, b float64
	for y := sampleFrom; y < sampleTo; y++ {
		for x := sampleFrom; x < sampleTo; x++ {
			px := canvas.RGBAAt(x, y)
			r += float64(px.R)
			g += float64(px.G)
			b += float64(px.B)
		}
	}
	count := float64((sampleTo - sampleFrom) * (sampleTo - sampleFrom))

	if Luminance(r/count, g/count, b/count) > lightThreshold {
		return ThemeLight
	}
	return ThemeDark
}

// ThemeFor decodes an image and samples it. It never fails: any read or decode
// error, including a panicking decoder, yields ThemeFallback.
func ThemeFor(r io.Reader) (theme Theme) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[viewer] image sampling panicked: %v", p)
			theme = ThemeFallback
		}
	}()

	img, format, err := image.Decode(r)
	if err != nil {
		log.Printf("[viewer] could not decode image, using fallback theme: %v", err)
		return ThemeFallback
	}
	theme = SampleLuminance(img)
	log.Printf("[viewer] sampled %s image: %s", format, theme)
	return theme
}
