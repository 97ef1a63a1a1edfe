// Package types provides type definitions for the portfolio content served by devfolio.
//
//nolint:revive // types is a standard Go package name pattern
package types

// StackCategory is one of the fixed skill groupings shown on the home page.
type StackCategory string

// Stack categories in display order
const (
	CategoryLanguages  StackCategory = "Languages"
	CategoryFrameworks StackCategory = "Frameworks & Libraries"
	CategoryDatabases  StackCategory = "Databases"
	CategoryTools      StackCategory = "Tools & Platform"
)

// StackCategories lists every category in the order the home page groups them.
var StackCategories = []StackCategory{
	CategoryLanguages,
	CategoryFrameworks,
	CategoryDatabases,
	CategoryTools,
}

// DeviceType is the form factor a project was built for
type DeviceType string

// Device types
const (
	DeviceDesktop DeviceType = "desktop"
	DeviceTablet  DeviceType = "tablet"
	DeviceMobile  DeviceType = "mobile"
)

// Icon returns the glyph used when a project has no logo.
func (d DeviceType) Icon() string {
	switch d {
	case DeviceDesktop:
		return "🖥️"
	case DeviceTablet, DeviceMobile:
		return "📱"
	default:
		return "💻"
	}
}

// OSType is a platform tag attached to a project
type OSType string

// Platform tags
const (
	OSiOS     OSType = "ios"
	OSAndroid OSType = "android"
	OSWeb     OSType = "web"
	OSWindows OSType = "windows"
)

// Label returns the display text for the platform tag.
func (o OSType) Label() string {
	switch o {
	case OSiOS:
		return "iOS"
	case OSAndroid:
		return "Android"
	case OSWeb:
		return "Web"
	case OSWindows:
		return "Windows"
	default:
		return string(o)
	}
}

// Content is the whole hand-authored document the site is built from
type Content struct {
	Experience  []Experience `json:"experience" validate:"dive"`
	Education   []Education  `json:"education" validate:"dive"`
	Stacks      []Stack      `json:"stacks" validate:"dive"`
	Projects    []Project    `json:"projects" validate:"dive"`
	TopProjects []int        `json:"top_projects,omitempty"`
	Statistics  Statistics   `json:"statistics"`
	DevIcons    []DevIcon    `json:"dev_icons,omitempty" validate:"dive"`
}

// Experience is a single work history entry
type Experience struct {
	ID               int      `json:"id" validate:"gt=0"`
	Dates            string   `json:"dates" validate:"required"`
	Title            string   `json:"title" validate:"required"`
	Company          string   `json:"company" validate:"required"`
	Location         string   `json:"location"`
	Logo             string   `json:"logo,omitempty"`
	Responsibilities []string `json:"responsibilities"`
	TechStack        []string `json:"tech_stack"`
}

// Education is a single education entry
type Education struct {
	ID          int    `json:"id" validate:"gt=0"`
	Dates       string `json:"dates" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Field       string `json:"field"`
	Institution string `json:"institution" validate:"required"`
	Location    string `json:"location"`
}

// Stack is a skill with a self-assessed proficiency between 0 and 100
type Stack struct {
	ID          int           `json:"id" validate:"gt=0"`
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	SkillLevel  int           `json:"skill_level" validate:"gte=0,lte=100"`
	Category    StackCategory `json:"category" validate:"oneof='Languages' 'Frameworks & Libraries' 'Databases' 'Tools & Platform'"`
}

// Project is a portfolio entry; ID is the routing key for /project/{id}
type Project struct {
	ID                 int            `json:"id" validate:"gt=0"`
	Name               string         `json:"name" validate:"required"`
	Description        string         `json:"description" validate:"required"`
	Category           string         `json:"category" validate:"required"`
	PageCount          int            `json:"page_count" validate:"gte=0"`
	PreviewImage       string         `json:"preview_image"`
	Images             []ProjectImage `json:"images" validate:"dive"`
	Logo               string         `json:"logo,omitempty"`
	BackgroundGradient string         `json:"background_gradient"`
	DeviceType         DeviceType     `json:"device_type" validate:"oneof=desktop tablet mobile"`
	OSTypes            []OSType       `json:"os_types" validate:"dive,oneof=ios android web windows"`
	Functionality      string         `json:"functionality"`
	RepoLink           string         `json:"repo_link"`
	LiveLink           string         `json:"live_link,omitempty"`
	TechStack          []string       `json:"tech_stack"`
}

// ProjectImage is a screenshot owned by exactly one Project
type ProjectImage struct {
	ID          int    `json:"id" validate:"gt=0"`
	Image       string `json:"image" validate:"required"`
	Description string `json:"description"`
}

// Statistics holds the targets of the counting-up figures on the about page
type Statistics struct {
	Projects   int `json:"projects" validate:"gte=0"`
	Experience int `json:"experience" validate:"gte=0"`
	Clients    int `json:"clients" validate:"gte=0"`
}

// DevIcon is one of the icons rotated through in the home page hero
type DevIcon struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon" validate:"required"`
}

// ImageByID returns the project image with the given id and its position in Images.
func (p *Project) ImageByID(id int) (*ProjectImage, int, bool) {
	for i := range p.Images {
		if p.Images[i].ID == id {
			return &p.Images[i], i, true
		}
	}
	return nil, -1, false
}
