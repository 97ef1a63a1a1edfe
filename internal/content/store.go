// Package content loads the portfolio document and answers the read-only queries pages need.
package content

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/jonathan/devfolio/internal/schemas"
	"github.com/jonathan/devfolio/internal/types"
)

// AllCategory is the pseudo category that disables project filtering
const AllCategory = "All"

// Store is an immutable, indexed view over a content document.
// Every accessor returns a fresh slice so callers cannot reorder the store.
type Store struct {
	doc          types.Content
	projectIndex map[int]int
	categories   []string
}

// Load validates a JSON content document against the content schema, decodes it
// and builds a Store from it.
func Load(data []byte) (*Store, error) {
	if err := schemas.ValidateContent(data); err != nil {
		return nil, &LoadError{
			Message: "schema validation failed",
			Cause:   err,
		}
	}

	var doc types.Content
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}

	return New(doc)
}

// New builds a Store from an already decoded document.
func New(doc types.Content) (*Store, error) {
	if err := doc.Validate(); err != nil {
		return nil, &LoadError{
			Message: "content validation failed",
			Cause:   err,
		}
	}

	if err := checkIntegrity(&doc); err != nil {
		return nil, err
	}

	s := &Store{
		doc:          doc,
		projectIndex: make(map[int]int, len(doc.Projects)),
		categories:   []string{AllCategory},
	}

	seen := make(map[string]bool)
	for i, p := range doc.Projects {
		s.projectIndex[p.ID] = i
		if !seen[p.Category] {
			seen[p.Category] = true
			s.categories = append(s.categories, p.Category)
		}
	}

	return s, nil
}

func checkIntegrity(doc *types.Content) error {
	if err := uniqueIDs("experience", doc.Experience, func(e types.Experience) int { return e.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("education", doc.Education, func(e types.Education) int { return e.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("stacks", doc.Stacks, func(s types.Stack) int { return s.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("projects", doc.Projects, func(p types.Project) int { return p.ID }); err != nil {
		return err
	}

	projectIDs := make(map[int]bool, len(doc.Projects))
	for _, p := range doc.Projects {
		projectIDs[p.ID] = true
		collection := fmt.Sprintf("project %d images", p.ID)
		if err := uniqueIDs(collection, p.Images, func(img types.ProjectImage) int { return img.ID }); err != nil {
			return err
		}
	}

	for _, id := range doc.TopProjects {
		if !projectIDs[id] {
			return &IntegrityError{Message: fmt.Sprintf("top project %d is not a known project", id)}
		}
	}

	return nil
}

func uniqueIDs[T any](collection string, items []T, id func(T) int) error {
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		key := id(item)
		if seen[key] {
			return &IntegrityError{Message: fmt.Sprintf("duplicate id %d in %s", key, collection)}
		}
		seen[key] = true
	}
	return nil
}

// Document returns a deep copy of the underlying document, used when exporting a snapshot.
func (s *Store) Document() types.Content {
	doc := s.doc
	doc.Experience = make([]types.Experience, len(s.doc.Experience))
	for i, e := range s.doc.Experience {
		e.Responsibilities = slices.Clone(e.Responsibilities)
		e.TechStack = slices.Clone(e.TechStack)
		doc.Experience[i] = e
	}
	doc.Education = slices.Clone(s.doc.Education)
	doc.Stacks = slices.Clone(s.doc.Stacks)
	doc.Projects = cloneProjects(s.doc.Projects)
	doc.TopProjects = slices.Clone(s.doc.TopProjects)
	doc.DevIcons = slices.Clone(s.doc.DevIcons)
	return doc
}

func cloneProjects(projects []types.Project) []types.Project {
	out := make([]types.Project, len(projects))
	for i, p := range projects {
		out[i] = cloneProject(p)
	}
	return out
}

// cloneProject copies p including the slices it owns
func cloneProject(p types.Project) types.Project {
	p.Images = slices.Clone(p.Images)
	p.OSTypes = slices.Clone(p.OSTypes)
	p.TechStack = slices.Clone(p.TechStack)
	return p
}

// Experience returns the work history in authored order
func (s *Store) Experience() []types.Experience {
	return slices.Clone(s.doc.Experience)
}

// Education returns the education entries in authored order
func (s *Store) Education() []types.Education {
	return slices.Clone(s.doc.Education)
}

// Stacks returns the skills in authored order
func (s *Store) Stacks() []types.Stack {
	return slices.Clone(s.doc.Stacks)
}

// StacksBySkill returns the skills ordered by skill level, highest first.
// Entries with equal levels keep their authored order.
func (s *Store) StacksBySkill() []types.Stack {
	stacks := s.Stacks()
	sort.SliceStable(stacks, func(i, j int) bool {
		return stacks[i].SkillLevel > stacks[j].SkillLevel
	})
	return stacks
}

// StackGroup is one category block of the home page skills section
type StackGroup struct {
	Category types.StackCategory
	Stacks   []types.Stack
}

// StacksByCategory groups skills under the fixed categories, each group sorted by skill level.
// Categories without entries are still returned so the page layout stays stable.
func (s *Store) StacksByCategory() []StackGroup {
	sorted := s.StacksBySkill()
	groups := make([]StackGroup, 0, len(types.StackCategories))
	for _, category := range types.StackCategories {
		group := StackGroup{Category: category, Stacks: []types.Stack{}}
		for _, stack := range sorted {
			if stack.Category == category {
				group.Stacks = append(group.Stacks, stack)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// Projects returns every project in authored order
func (s *Store) Projects() []types.Project {
	return cloneProjects(s.doc.Projects)
}

// ProjectByID looks up a project by its routing id
func (s *Store) ProjectByID(id int) (*types.Project, error) {
	i, ok := s.projectIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	p := cloneProject(s.doc.Projects[i])
	return &p, nil
}

// Categories returns "All" followed by each project category in first-seen order
func (s *Store) Categories() []string {
	return slices.Clone(s.categories)
}

// FilterByCategory returns the projects whose category equals the given one exactly.
// AllCategory and the empty string return every project.
func (s *Store) FilterByCategory(category string) []types.Project {
	if category == "" || category == AllCategory {
		return s.Projects()
	}
	filtered := []types.Project{}
	for _, p := range s.doc.Projects {
		if p.Category == category {
			filtered = append(filtered, cloneProject(p))
		}
	}
	return filtered
}

// TopProjects returns the projects featured on the home page.
// Without an explicit list the first three projects are featured.
func (s *Store) TopProjects() []types.Project {
	if len(s.doc.TopProjects) == 0 {
		return cloneProjects(s.doc.Projects[:min(3, len(s.doc.Projects))])
	}
	top := make([]types.Project, 0, len(s.doc.TopProjects))
	for _, id := range s.doc.TopProjects {
		top = append(top, cloneProject(s.doc.Projects[s.projectIndex[id]]))
	}
	return top
}

// RelatedProjects returns up to n projects other than the given one, in authored order
func (s *Store) RelatedProjects(id, n int) []types.Project {
	n = max(n, 0)
	related := make([]types.Project, 0, n)
	for _, p := range s.doc.Projects {
		if len(related) == n {
			break
		}
		if p.ID != id {
			related = append(related, cloneProject(p))
		}
	}
	return related
}

// Statistics returns the counter targets of the about page
func (s *Store) Statistics() types.Statistics {
	return s.doc.Statistics
}

// DevIcons returns the icons rotated through in the hero
func (s *Store) DevIcons() []types.DevIcon {
	return slices.Clone(s.doc.DevIcons)
}
