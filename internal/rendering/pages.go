package rendering

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/devfolio/internal/config"
	"github.com/jonathan/devfolio/internal/contact"
	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/counter"
	"github.com/jonathan/devfolio/internal/reveal"
	"github.com/jonathan/devfolio/internal/stagger"
	"github.com/jonathan/devfolio/internal/types"
	"github.com/jonathan/devfolio/internal/viewer"
)

// Texts shown when there is nothing to list
const (
	EmptyCategoryMessage = "No projects match the selected category. Try selecting a different filter."
	NotFoundHeading      = "Project Not Found"
	NotFoundMessage      = "The project you're looking for doesn't exist."
)

// relatedCount is how many other projects the detail page suggests
const relatedCount = 2

// Site is the chrome shared by every page
type Site struct {
	Profile  config.Profile
	Contacts []ContactLink
	Social   []config.SocialLink

	// RevealDelay is how long a wide viewport waits before revealing every section
	RevealDelay time.Duration
}

// ContactLink is a contact button. Href is built by the contact package,
// so tel: and sms: schemes are trusted.
type ContactLink struct {
	Kind  string
	Label string
	Href  template.URL
}

// NewSite builds the shared chrome from the owner's profile
func NewSite(p config.Profile) Site {
	links := contact.Links(p.Email, p.Phone)
	contacts := make([]ContactLink, len(links))
	for i, l := range links {
		contacts[i] = ContactLink{Kind: l.Kind, Label: l.Label, Href: template.URL(l.Href)}
	}
	return Site{
		Profile:     p,
		Contacts:    contacts,
		Social:      p.SocialLinks(),
		RevealDelay: reveal.WideViewportDelay,
	}
}

// Section is a reveal-on-scroll block as rendered in its initial state
type Section struct {
	Name      string
	Threshold float64
	State     reveal.State
}

// Page carries the fields every template reads
type Page struct {
	Title    string
	Active   string
	Site     Site
	Sections map[string]Section
}

func newPage(site Site, title, active string, sections ...string) Page {
	coord := reveal.NewCoordinator(reveal.DefaultThresholds)
	snapshot := make(map[string]Section, len(sections))
	for _, name := range sections {
		threshold, _ := coord.Threshold(name)
		snapshot[name] = Section{Name: name, Threshold: threshold, State: coord.State(name)}
	}

	full := site.Profile.NameLong
	if title != "" {
		full = title + " | " + full
	}
	return Page{Title: full, Active: active, Site: site, Sections: snapshot}
}

// ProjectCard is a project tile with its stagger delay
type ProjectCard struct {
	types.Project
	Href  string
	Delay time.Duration
}

// DeviceIcon returns the emoji for the card's device type
func (c ProjectCard) DeviceIcon() string { return c.DeviceType.Icon() }

// OSLabels returns display labels for the card's platforms
func (c ProjectCard) OSLabels() []string {
	labels := make([]string, len(c.OSTypes))
	for i, os := range c.OSTypes {
		labels[i] = os.Label()
	}
	return labels
}

// ProjectHref is the detail page path for a project id
func ProjectHref(id int) string {
	return "/project/" + strconv.Itoa(id)
}

func projectCards(projects []types.Project, timing stagger.Timing) []ProjectCard {
	offsets := stagger.Offsets(len(projects), timing)
	cards := make([]ProjectCard, len(projects))
	for i, p := range projects {
		cards[i] = ProjectCard{Project: p, Href: ProjectHref(p.ID), Delay: offsets[i]}
	}
	return cards
}

// HomePage is the landing page
type HomePage struct {
	Page
	DevIcons    []types.DevIcon
	StackGroups []content.StackGroup
	Featured    []ProjectCard
}

// BuildHome assembles the landing page
func BuildHome(store *content.Store, site Site) HomePage {
	return HomePage{
		Page:        newPage(site, "", "home", reveal.SectionIntro, reveal.SectionStacks, reveal.SectionProjects),
		DevIcons:    store.DevIcons(),
		StackGroups: store.StacksByCategory(),
		Featured:    projectCards(store.TopProjects(), stagger.FeaturedProjects),
	}
}

// StatCounter is a counting-up figure on the about page
type StatCounter struct {
	Name   string
	Label  string
	Suffix string
	Target int
	Period time.Duration
}

var counterLabels = map[string]struct{ label, suffix string }{
	"projects":   {"Completed Projects", "+"},
	"experience": {"Years of Experience", "+"},
	"clients":    {"Happy Clients", "+"},
}

// AboutPage is the CV page
type AboutPage struct {
	Page
	Counters    []StatCounter
	Experience  []types.Experience
	Education   []types.Education
	StackGroups []content.StackGroup
}

// BuildAbout assembles the about page
func BuildAbout(store *content.Store, site Site) AboutPage {
	counters := counter.StatisticsCounters(store.Statistics())
	stats := make([]StatCounter, len(counters))
	for i, c := range counters {
		meta := counterLabels[c.Name]
		stats[i] = StatCounter{Name: c.Name, Label: meta.label, Suffix: meta.suffix, Target: c.Target, Period: c.Period}
	}

	return AboutPage{
		Page: newPage(site, "About", "about",
			reveal.SectionIntro, reveal.SectionCVCard, reveal.SectionStats,
			reveal.SectionExperience, reveal.SectionEducation, reveal.SectionStacks),
		Counters:    stats,
		Experience:  store.Experience(),
		Education:   store.Education(),
		StackGroups: store.StacksByCategory(),
	}
}

// CategoryLink is one filter button on the projects page
type CategoryLink struct {
	Name   string
	Href   string
	Active bool
}

// ProjectsPage is the filterable project listing
type ProjectsPage struct {
	Page
	Categories   []CategoryLink
	Selected     string
	Cards        []ProjectCard
	EmptyMessage string
}

// BuildProjects assembles the listing filtered to category. An empty category means All.
func BuildProjects(store *content.Store, site Site, category string) ProjectsPage {
	if category == "" {
		category = content.AllCategory
	}

	names := store.Categories()
	links := make([]CategoryLink, len(names))
	for i, name := range names {
		href := "/projects"
		if name != content.AllCategory {
			href += "?" + url.Values{"category": {name}}.Encode()
		}
		links[i] = CategoryLink{Name: name, Href: href, Active: name == category}
	}

	cards := projectCards(store.FilterByCategory(category), stagger.PortfolioProjects)
	page := ProjectsPage{
		Page:       newPage(site, "Projects", "projects", reveal.SectionIntro, reveal.SectionProjects),
		Categories: links,
		Selected:   category,
		Cards:      cards,
	}
	if len(cards) == 0 {
		page.EmptyMessage = EmptyCategoryMessage
	}
	return page
}

// GalleryItem is a thumbnail that opens the viewer on its image
type GalleryItem struct {
	types.ProjectImage
	Index int
	Href  string
}

// ViewerControl is a viewer button rendered as a link to the resulting state
type ViewerControl struct {
	Action string
	Label  string
	Href   string
	Keys   string
}

// ViewerView is the open image viewer overlay
type ViewerView struct {
	Image       types.ProjectImage
	Position    int
	Total       int
	Style       template.CSS
	ZoomPercent int
	Theme       viewer.Theme
	Controls    []ViewerControl
	CloseHref   string
	Download    string
	Filename    string
}

// ThemeFunc samples a project image; nil means the fallback theme
type ThemeFunc func(types.ProjectImage) viewer.Theme

// ProjectPage is the detail page of one project
type ProjectPage struct {
	Page
	Project types.Project
	Gallery []GalleryItem
	Related []ProjectCard
	Viewer  *ViewerView
}

// BuildProject assembles the detail page of project id.
// The viewer is open when query carries view=1; its state comes from the same query.
// Returns content.ErrProjectNotFound for unknown ids.
func BuildProject(store *content.Store, site Site, id int, query url.Values, theme ThemeFunc) (ProjectPage, error) {
	project, err := store.ProjectByID(id)
	if err != nil {
		return ProjectPage{}, err
	}

	base := ProjectHref(project.ID)
	gallery := make([]GalleryItem, len(project.Images))
	for i, img := range project.Images {
		gallery[i] = GalleryItem{ProjectImage: img, Index: i, Href: viewerHref(base, viewer.New(len(project.Images), i))}
	}

	page := ProjectPage{
		Page:    newPage(site, project.Name, "projects", reveal.SectionIntro, reveal.SectionProjects),
		Project: *project,
		Gallery: gallery,
		Related: projectCards(store.RelatedProjects(project.ID, relatedCount), stagger.FeaturedProjects),
	}

	if query.Get("view") == "1" && len(project.Images) > 0 {
		state := viewer.FromQuery(len(project.Images), query)
		page.Viewer = buildViewer(project, base, state, theme)
	}
	return page, nil
}

// viewerKeys lists the keyboard bindings behind each control, primary key first
var viewerKeys = []struct {
	action string
	label  string
	keys   []string
}{
	{"previous", "Previous", []string{"ArrowLeft"}},
	{"next", "Next", []string{"ArrowRight"}},
	{"zoom-out", "Zoom out", []string{"-"}},
	{"zoom-in", "Zoom in", []string{"+", "="}},
	{"rotate", "Rotate", []string{"r", "R"}},
	{"close", "Close", []string{"Escape"}},
}

func buildViewer(project *types.Project, base string, state *viewer.State, theme ThemeFunc) *ViewerView {
	img := project.Images[state.Index]

	v := &ViewerView{
		Image:       img,
		Position:    state.Index + 1,
		Total:       state.Len(),
		Style:       template.CSS("transform: " + state.Transform()),
		ZoomPercent: state.ZoomPercent(),
		Theme:       viewer.ThemeFallback,
		CloseHref:   base,
		Download:    fmt.Sprintf("%s/images/%d/download", base, img.ID),
		Filename:    viewer.DownloadFilename(img.Description),
	}
	if theme != nil {
		v.Theme = theme(img)
	}

	for _, binding := range viewerKeys {
		next := state.Clone()
		next.HandleKey(binding.keys[0])
		v.Controls = append(v.Controls, ViewerControl{
			Action: binding.action,
			Label:  binding.label,
			Href:   viewerHref(base, next),
			Keys:   strings.Join(binding.keys, " "),
		})
	}

	reset := state.Clone()
	reset.Reset()
	v.Controls = append(v.Controls, ViewerControl{Action: "reset", Label: "Reset", Href: viewerHref(base, reset)})

	return v
}

func viewerHref(base string, s *viewer.State) string {
	if !s.Open {
		return base
	}
	q := s.Query()
	q.Set("view", "1")
	return base + "?" + q.Encode()
}

// NotFoundPage is shown for unknown project ids
type NotFoundPage struct {
	Page
	Heading   string
	Message   string
	HomeHref  string
	HomeLabel string
}

// BuildNotFound assembles the not-found view
func BuildNotFound(site Site) NotFoundPage {
	return NotFoundPage{
		Page:      newPage(site, NotFoundHeading, "projects"),
		Heading:   NotFoundHeading,
		Message:   NotFoundMessage,
		HomeHref:  "/",
		HomeLabel: "Go Home",
	}
}
