package server

import (
	"bytes"
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/rendering"
	"github.com/jonathan/devfolio/internal/types"
	"github.com/jonathan/devfolio/internal/viewer"
)

// renderPage renders into memory first so a template failure can still become a 500
func (s *Server) renderPage(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, page, data); err != nil {
		log.Printf("[server] failed to render %s: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[server] failed to write %s: %v", page, err)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, http.StatusOK, rendering.PageHome, rendering.BuildHome(s.store, s.site))
}

func (s *Server) handleAbout(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, http.StatusOK, rendering.PageAbout, rendering.BuildAbout(s.store, s.site))
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	s.renderPage(w, http.StatusOK, rendering.PageProjects, rendering.BuildProjects(s.store, s.site, category))
}

// handleProject renders the detail page. Unknown or malformed ids get the not-found view.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.renderNotFound(w)
		return
	}

	page, err := rendering.BuildProject(s.store, s.site, id, r.URL.Query(), s.themeFor)
	if err != nil {
		if HTTPStatus(err) == http.StatusNotFound {
			s.renderNotFound(w)
			return
		}
		log.Printf("[server] failed to build project %d: %v", id, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	s.renderPage(w, http.StatusOK, rendering.PageProject, page)
}

func (s *Server) renderNotFound(w http.ResponseWriter) {
	s.renderPage(w, http.StatusNotFound, rendering.PageNotFound, rendering.BuildNotFound(s.site))
}

// handleListProjects returns projects, optionally filtered by ?category=
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = content.AllCategory
	}

	projects := s.store.FilterByCategory(category)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"category":   category,
		"categories": s.store.Categories(),
		"projects":   projects,
		"count":      len(projects),
	})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projectFromPath(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, project)
}

// handleImageTheme reports which control theme suits a project image
func (s *Server) handleImageTheme(w http.ResponseWriter, r *http.Request) {
	project, img, err := s.imageFromPath(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	theme := s.themeFor(*img)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"project_id": project.ID,
		"image_id":   img.ID,
		"theme":      theme.String(),
		"classes":    theme.Classes(),
	})
}

// handleImageDownload streams a project image as an attachment named after its description
func (s *Server) handleImageDownload(w http.ResponseWriter, r *http.Request) {
	_, img, err := s.imageFromPath(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	f, err := s.assets.Open(assetPath(img.Image))
	if err != nil {
		log.Printf("[server] image %s unavailable: %v", img.Image, err)
		s.errorResponse(w, HTTPStatus(err), "image file not available")
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(path.Ext(img.Image))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": viewer.DownloadFilename(img.Description),
	}))
	if info, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	}

	if _, err := io.Copy(w, f); err != nil {
		log.Printf("[server] failed to stream %s: %v", img.Image, err)
	}
}

func (s *Server) projectFromPath(r *http.Request) (*types.Project, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return s.store.ProjectByID(id)
}

func (s *Server) imageFromPath(r *http.Request) (*types.Project, *types.ProjectImage, error) {
	project, err := s.projectFromPath(r)
	if err != nil {
		return nil, nil, err
	}
	imageID, err := pathID(r, "imageID")
	if err != nil {
		return nil, nil, err
	}
	img, _, ok := project.ImageByID(imageID)
	if !ok {
		return nil, nil, &ErrImageNotFound{ProjectID: project.ID, ImageID: imageID}
	}
	return project, img, nil
}

// pathID parses a positive integer path parameter
func pathID(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &ErrInvalidID{Param: name, Value: raw}
	}
	return id, nil
}

// assetPath turns a content path into a path inside the assets filesystem
func assetPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// isRemote reports whether a content path points off-site
func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "//")
}
