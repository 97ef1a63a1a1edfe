package viewer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 255, Luminance(255, 255, 255), 1e-9)
	assert.InDelta(t, 0, Luminance(0, 0, 0), 1e-9)
	assert.InDelta(t, 0.299*200+0.587*100+0.114*50, Luminance(200, 100, 50), 1e-9)
}

func TestSampleLuminance_SolidColours(t *testing.T) {
	assert.Equal(t, ThemeLight, SampleLuminance(solid(64, 64, color.White)))
	assert.Equal(t, ThemeDark, SampleLuminance(solid(640, 480, color.Black)))

	// 0.299*255 = 76.2, well under the threshold even though red is saturated
	assert.Equal(t, ThemeDark, SampleLuminance(solid(100, 100, color.RGBA{R: 255, A: 255})))
	// 0.587*255 = 149.7
	assert.Equal(t, ThemeLight, SampleLuminance(solid(100, 100, color.RGBA{G: 255, A: 255})))
}

func TestSampleLuminance_ThresholdIsStrict(t *testing.T) {
	grey := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	assert.Equal(t, ThemeDark, SampleLuminance(solid(100, 100, grey)), "exactly 128 is not light")

	lighter := color.RGBA{R: 129, G: 129, B: 129, A: 255}
	assert.Equal(t, ThemeLight, SampleLuminance(solid(100, 100, lighter)))
}

func TestSampleLuminance_OnlyCentreCounts(t *testing.T) {
	// Dark frame with a light centre block covering [25,75) of 100x100
	img := solid(100, 100, color.Black)
	for y := 25; y < 75; y++ {
		for x := 25; x < 75; x++ {
			img.Set(x, y, color.White)
		}
	}
	assert.Equal(t, ThemeLight, SampleLuminance(img))

	// And the inverse
	img = solid(100, 100, color.White)
	for y := 25; y < 75; y++ {
		for x := 25; x < 75; x++ {
			img.Set(x, y, color.Black)
		}
	}
	assert.Equal(t, ThemeDark, SampleLuminance(img))
}

func TestSampleLuminance_Empty(t *testing.T) {
	assert.Equal(t, ThemeFallback, SampleLuminance(nil))
	assert.Equal(t, ThemeFallback, SampleLuminance(image.NewRGBA(image.Rectangle{})))
}

func TestThemeFor_DecodesFormats(t *testing.T) {
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, solid(50, 50, color.White)))
	assert.Equal(t, ThemeLight, ThemeFor(&pngBuf))

	var jpgBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpgBuf, solid(50, 50, color.Black), nil))
	assert.Equal(t, ThemeDark, ThemeFor(&jpgBuf))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestThemeFor_FallsBackOnError(t *testing.T) {
	assert.Equal(t, ThemeFallback, ThemeFor(strings.NewReader("not an image")))
	assert.Equal(t, ThemeFallback, ThemeFor(failingReader{}))
}

func TestTheme_Classes(t *testing.T) {
	assert.Equal(t, "bg-black/30 backdrop-blur-md", ThemeLight.Classes())
	assert.Equal(t, "bg-white/20 backdrop-blur-md", ThemeDark.Classes())
	assert.Equal(t, "bg-white/10 backdrop-blur-sm", ThemeFallback.Classes())
	assert.Equal(t, "light", ThemeLight.String())
	assert.Equal(t, "fallback", ThemeFallback.String())
}
