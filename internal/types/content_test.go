package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProject() Project {
	return Project{
		ID:                 1,
		Name:               "Spreeloop",
		Description:        "Food delivery platform",
		Category:           "Web App",
		PageCount:          12,
		DeviceType:         DeviceDesktop,
		OSTypes:            []OSType{OSWeb, OSiOS},
		BackgroundGradient: "from-green-600 to-green-900",
		Images: []ProjectImage{
			{ID: 1, Image: "/projects/spreeloop/home.png", Description: "Home screen"},
			{ID: 2, Image: "/projects/spreeloop/cart.png", Description: "Cart"},
		},
	}
}

func TestProject_JSONRoundTripFieldNames(t *testing.T) {
	p := validProject()
	p.LiveLink = "https://spreeloop.com"

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "page_count")
	assert.Contains(t, raw, "os_types")
	assert.Contains(t, raw, "live_link")
	assert.NotContains(t, raw, "logo", "empty optional logo should be omitted")
}

func TestProject_Validate(t *testing.T) {
	p := validProject()
	assert.NoError(t, p.Validate())

	t.Run("unknown device type", func(t *testing.T) {
		bad := validProject()
		bad.DeviceType = "watch"
		assert.Error(t, bad.Validate())
	})

	t.Run("unknown os tag", func(t *testing.T) {
		bad := validProject()
		bad.OSTypes = []OSType{"linux"}
		assert.Error(t, bad.Validate())
	})

	t.Run("image without path", func(t *testing.T) {
		bad := validProject()
		bad.Images[1].Image = ""
		assert.Error(t, bad.Validate())
	})
}

func TestStack_Validate(t *testing.T) {
	s := Stack{ID: 1, Name: "Go", SkillLevel: 90, Category: CategoryLanguages}
	assert.NoError(t, s.Validate())

	s.SkillLevel = 101
	assert.Error(t, s.Validate())

	s.SkillLevel = 0
	s.Category = "Soft Skills"
	assert.Error(t, s.Validate())
}

func TestOSType_Label(t *testing.T) {
	assert.Equal(t, "iOS", OSiOS.Label())
	assert.Equal(t, "Android", OSAndroid.Label())
	assert.Equal(t, "Web", OSWeb.Label())
	assert.Equal(t, "Windows", OSWindows.Label())
	assert.Equal(t, "linux", OSType("linux").Label())
}

func TestDeviceType_Icon(t *testing.T) {
	assert.Equal(t, "🖥️", DeviceDesktop.Icon())
	assert.Equal(t, "📱", DeviceTablet.Icon())
	assert.Equal(t, "📱", DeviceMobile.Icon())
	assert.Equal(t, "💻", DeviceType("").Icon())
}

func TestProject_ImageByID(t *testing.T) {
	p := validProject()

	img, idx, ok := p.ImageByID(2)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Cart", img.Description)

	_, idx, ok = p.ImageByID(99)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}
