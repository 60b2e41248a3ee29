package artworks

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/mvicenzino/kidzart/cmd/website/internal/viewmodels"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

type ArtworksControllerConfig struct {
	ArtworkService services.ArtworkServicer
	ChildService   services.ChildServicer
	RemoteCatalog  services.RemoteCatalogServicer
	Renderer       rendering.TemplateRenderer
	UploadService  services.UploadServicer
}

type ArtworksController struct {
	artworkService services.ArtworkServicer
	childService   services.ChildServicer
	remoteCatalog  services.RemoteCatalogServicer
	renderer       rendering.TemplateRenderer
	uploadService  services.UploadServicer
}

func NewArtworksController(config ArtworksControllerConfig) ArtworksController {
	return ArtworksController{
		artworkService: config.ArtworkService,
		childService:   config.ChildService,
		remoteCatalog:  config.RemoteCatalog,
		renderer:       config.Renderer,
		uploadService:  config.UploadService,
	}
}

func (c ArtworksController) newUploadPage(r *http.Request) viewmodels.UploadPage {
	parent := viewmodels.GetParentFromContext(r)

	return viewmodels.UploadPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, "/static/js/pages/upload.js"),
		Form:          viewmodels.UploadForm{Theme: services.DefaultTheme},
		Errors:        services.ValidationErrors{},
		Children:      c.childService.List(r.Context(), parent.ID),
		Mediums:       taxonomy.Mediums.Entries,
		Themes:        taxonomy.Themes.Entries,
		MaxMB:         services.MaxImageBytes / (1024 * 1024),
	}
}

/*
GET /upload
*/
func (c ArtworksController) UploadPage(w http.ResponseWriter, r *http.Request) {
	c.renderer.Render("pages/upload", c.newUploadPage(r), w)
}

/*
POST /upload
*/
func (c ArtworksController) UploadAction(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		file   multipart.File
		header *multipart.FileHeader
	)

	parent := viewmodels.GetParentFromContext(r)
	viewData := c.newUploadPage(r)
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageBytes+(1024*1024))

	if err = r.ParseMultipartForm(services.MaxImageBytes); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		viewData.IsWarning = true
		viewData.Message = fmt.Sprintf("Images must be %dMB or smaller.", viewData.MaxMB)

		c.renderer.Render("pages/upload", viewData, w)
		return
	}

	viewData.Form = readUploadForm(r)
	image := services.ImageUpload{}

	if file, header, err = r.FormFile("image"); err == nil {
		defer file.Close()

		image = services.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	form := services.UploadForm{
		Title:       viewData.Form.Title,
		Description: viewData.Form.Description,
		Medium:      viewData.Form.Medium,
		Theme:       viewData.Form.Theme,
	}

	if viewData.Form.ChildID != 0 {
		form.ChildID = &viewData.Form.ChildID
	}

	artwork, err := c.uploadService.Upload(r.Context(), parent.ID, form, image)

	if err != nil {
		var v services.ValidationErrors

		if errors.As(err, &v) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			viewData.Errors = v
			viewData.IsWarning = true
			viewData.Message = "Please fix the highlighted fields."
		} else {
			slog.Error("error uploading artwork", "error", err, "parentID", parent.ID)
			w.WriteHeader(http.StatusInternalServerError)
			viewData.IsError = true
			viewData.Message = "Your artwork could not be uploaded. Please try again."
		}

		c.renderer.Render("pages/upload", viewData, w)
		return
	}

	slog.Info("artwork uploaded", "parentID", parent.ID, "artworkID", artwork.ID)
	http.Redirect(w, r, fmt.Sprintf("/artworks/%d", artwork.ID), http.StatusSeeOther)
}

/*
PUT /artworks/{id}/like
*/
func (c ArtworksController) LikeAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	id := pathID(r)

	artwork, err := c.artworkService.Like(r.Context(), parent.ID, id)

	switch {
	case errors.Is(err, services.ErrNotUserUpload):
		httphelpers.WriteText(w, http.StatusForbidden, "Only your own uploads can be liked here")
		return

	case errors.Is(err, services.ErrArtworkNotFound):
		httphelpers.WriteText(w, http.StatusNotFound, "artwork not found")
		return

	case err != nil:
		slog.Error("error liking artwork", "error", err, "artworkID", id)
		httphelpers.TextInternalServerError(w, "Error liking artwork")
		return
	}

	if c.remoteCatalog != nil {
		likes := artwork.Likes

		if _, err = c.remoteCatalog.UpdateArtwork(id, models.ArtworkPatch{Likes: &likes}); err != nil {
			slog.Error("error updating likes in the remote catalog", "error", err, "artworkID", id)
		}
	}

	markup := fmt.Sprintf("<span class='likes'><i class='icon icon-heart'></i> %d</span>", artwork.Likes)
	httphelpers.WriteHtml(w, http.StatusOK, markup)
}

/*
POST /artworks/{id}/delete
*/
func (c ArtworksController) DeleteAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	id := pathID(r)

	if err := c.artworkService.Delete(r.Context(), parent.ID, id); err != nil {
		if errors.Is(err, services.ErrNotUserUpload) {
			httphelpers.WriteText(w, http.StatusForbidden, "Only your own uploads can be deleted")
			return
		}

		if !errors.Is(err, services.ErrArtworkNotFound) {
			slog.Error("error deleting artwork", "error", err, "artworkID", id)
			httphelpers.TextInternalServerError(w, "Error deleting artwork")
			return
		}
	}

	if c.remoteCatalog != nil {
		if err := c.remoteCatalog.DeleteArtwork(id); err != nil && !errors.Is(err, services.ErrArtworkNotFound) {
			slog.Error("error removing artwork from the remote catalog", "error", err, "artworkID", id)
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func readUploadForm(r *http.Request) viewmodels.UploadForm {
	childID, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue("childId")), 10, 64)

	return viewmodels.UploadForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Medium:      r.FormValue("medium"),
		Theme:       r.FormValue("theme"),
		ChildID:     childID,
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}
