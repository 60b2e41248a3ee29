package children

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/getoptions"
	"github.com/mvicenzino/kidzart/cmd/website/internal/viewmodels"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
)

type ChildrenControllerConfig struct {
	ArtworkService   services.ArtworkServicer
	Bucket           string
	ChildService     services.ChildServicer
	PortfolioService services.PortfolioServicer
	Renderer         rendering.TemplateRenderer
	S3Client         s3.S3Client
}

type ChildrenController struct {
	artworkService   services.ArtworkServicer
	bucket           string
	childService     services.ChildServicer
	portfolioService services.PortfolioServicer
	renderer         rendering.TemplateRenderer
	s3Client         s3.S3Client
}

func NewChildrenController(config ChildrenControllerConfig) ChildrenController {
	return ChildrenController{
		artworkService:   config.ArtworkService,
		bucket:           config.Bucket,
		childService:     config.ChildService,
		portfolioService: config.PortfolioService,
		renderer:         config.Renderer,
		s3Client:         config.S3Client,
	}
}

func (c ChildrenController) newChildrenPage(r *http.Request) viewmodels.ChildrenPage {
	parent := viewmodels.GetParentFromContext(r)
	pending, _ := c.childService.PendingImport(parent.ID)

	return viewmodels.ChildrenPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, "/static/js/pages/children.js"),
		Children:      c.childService.List(r.Context(), parent.ID),
		Form:          viewmodels.ChildForm{Age: 5, AvatarEmoji: models.DefaultAvatarEmoji},
		Errors:        services.ValidationErrors{},
		AvatarEmojis:  models.AvatarEmojis,
		Pending:       pending,
	}
}

/*
GET /children
*/
func (c ChildrenController) ChildrenPage(w http.ResponseWriter, r *http.Request) {
	c.renderer.Render("pages/children/list", c.newChildrenPage(r), w)
}

/*
POST /children
*/
func (c ChildrenController) AddChildAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	form := readChildForm(r)

	child, err := c.childService.Add(r.Context(), parent.ID, toServiceForm(form))

	if err != nil {
		viewData := c.newChildrenPage(r)
		viewData.Form = form
		c.renderFormError(w, viewData, err, "error adding child profile")
		return
	}

	slog.Info("child profile added", "parentID", parent.ID, "childID", child.ID)
	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

/*
GET /children/{id}/edit
*/
func (c ChildrenController) EditChildPage(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		child models.ChildProfile
	)

	parent := viewmodels.GetParentFromContext(r)
	viewData := c.newChildrenPage(r)

	if child, err = c.childService.Get(r.Context(), parent.ID, pathID(r)); err != nil {
		w.WriteHeader(http.StatusNotFound)
		viewData.IsWarning = true
		viewData.Message = "We couldn't find that child profile."

		c.renderer.Render("pages/children/list", viewData, w)
		return
	}

	viewData.Form = viewmodels.ChildForm{
		ID:          child.ID,
		Name:        child.Name,
		Age:         child.Age,
		Description: child.Description,
		AvatarEmoji: child.AvatarEmoji,
	}

	c.renderer.Render("pages/children/list", viewData, w)
}

/*
POST /children/{id}
*/
func (c ChildrenController) EditChildAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	form := readChildForm(r)
	form.ID = pathID(r)

	if _, err := c.childService.Edit(r.Context(), parent.ID, form.ID, toServiceForm(form)); err != nil {
		viewData := c.newChildrenPage(r)
		viewData.Form = form
		c.renderFormError(w, viewData, err, "error editing child profile")
		return
	}

	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

/*
GET /children/{id}
*/
func (c ChildrenController) ChildPage(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		child models.ChildProfile
	)

	parent := viewmodels.GetParentFromContext(r)
	id := pathID(r)

	viewData := viewmodels.ChildPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		ConfirmDelete: r.URL.Query().Get("confirm") == "delete",
		Artworks:      []viewmodels.ArtCard{},
	}

	if child, err = c.childService.Get(r.Context(), parent.ID, id); err != nil {
		w.WriteHeader(http.StatusNotFound)
		viewData.IsWarning = true
		viewData.Message = "We couldn't find that child profile."

		c.renderer.Render("pages/children/view", viewData, w)
		return
	}

	viewData.Child = child
	viewData.Artworks = viewmodels.NewArtCards(c.artworkService.ByChild(r.Context(), parent.ID, id))

	c.renderer.Render("pages/children/view", viewData, w)
}

/*
POST /children/{id}/delete
*/
func (c ChildrenController) DeleteChildAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	id := pathID(r)
	confirmed := httphelpers.GetFromRequest[string](r, "confirmed") == "yes"

	err := c.childService.Delete(r.Context(), parent.ID, id, confirmed)

	if errors.Is(err, services.ErrDeleteNotConfirmed) {
		http.Redirect(w, r, fmt.Sprintf("/children/%d?confirm=delete", id), http.StatusSeeOther)
		return
	}

	if err != nil && !errors.Is(err, services.ErrChildNotFound) {
		slog.Error("error deleting child profile", "error", err, "parentID", parent.ID, "childID", id)
		httphelpers.TextInternalServerError(w, "Error deleting child profile")
		return
	}

	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

/*
POST /children/import
*/
func (c ChildrenController) PreviewImportAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	code := httphelpers.GetFromRequest[string](r, "code")

	if _, err := c.childService.PreviewImport(r.Context(), parent.ID, code); err != nil {
		viewData := c.newChildrenPage(r)
		viewData.ImportCode = code
		c.renderFormError(w, viewData, err, "error previewing import")
		return
	}

	c.renderer.Render("pages/children/list", c.newChildrenPage(r), w)
}

/*
POST /children/import/confirm
*/
func (c ChildrenController) ConfirmImportAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	result, err := c.childService.ConfirmImport(r.Context(), parent.ID)
	viewData := c.newChildrenPage(r)

	if err != nil {
		viewData.IsWarning = true
		viewData.Message = "There is nothing to import. Paste a code first."

		c.renderer.Render("pages/children/list", viewData, w)
		return
	}

	viewData.Message = ImportSummary(len(result.Added), result.Skipped)
	c.renderer.Render("pages/children/list", viewData, w)
}

/*
POST /children/import/cancel
*/
func (c ChildrenController) CancelImportAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	c.childService.CancelImport(parent.ID)

	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

/*
GET /children/export
*/
func (c ChildrenController) ExportAction(w http.ResponseWriter, r *http.Request) {
	parent := viewmodels.GetParentFromContext(r)
	viewData := c.newChildrenPage(r)

	code, err := c.childService.Export(r.Context(), parent.ID)

	if err != nil {
		slog.Error("error exporting child profiles", "error", err, "parentID", parent.ID)
		viewData.IsError = true
		viewData.Message = "We couldn't export your profiles. Please try again."
	}

	viewData.ExportCode = code
	c.renderer.Render("pages/children/list", viewData, w)
}

/*
POST /children/{id}/portfolio
*/
func (c ChildrenController) PortfolioAction(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		child models.ChildProfile
	)

	parent := viewmodels.GetParentFromContext(r)
	id := pathID(r)

	viewData := viewmodels.ChildPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Artworks:      viewmodels.NewArtCards(c.artworkService.ByChild(r.Context(), parent.ID, id)),
	}

	if child, err = c.childService.Get(r.Context(), parent.ID, id); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "child profile not found")
		return
	}

	viewData.Child = child

	if viewData.PortfolioFile, err = c.portfolioService.CreatePortfolioAsync(parent.Identity(), id); err != nil {
		var v services.ValidationErrors

		if errors.As(err, &v) {
			viewData.IsWarning = true
			viewData.Message = v["portfolio"]
		} else {
			slog.Error("failed to start portfolio creation", "error", err, "childID", id)
			viewData.IsError = true
			viewData.Message = "We couldn't prepare the download. Please try again later."
		}

		c.renderer.Render("pages/children/view", viewData, w)
		return
	}

	viewData.Message = fmt.Sprintf("We're bundling %s's artwork. A download link is on its way to %s.", child.Name, parent.Email)
	c.renderer.Render("pages/children/view", viewData, w)
}

/*
GET /downloads/{filename}
*/
func (c ChildrenController) DownloadPortfolio(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		object s3.GetObjectResponse
	)

	parent := viewmodels.GetParentFromContext(r)
	key := c.portfolioService.DownloadKey(parent.ID, r.PathValue("filename"))

	object, err = c.s3Client.Get(
		c.bucket,
		key,
		getoptions.WithContext(r.Context()),
	)

	if err != nil {
		slog.Error("error getting portfolio from S3", "error", err, "bucket", c.bucket, "key", key)
		httphelpers.WriteText(w, http.StatusNotFound, "Download file not found")
		return
	}

	defer object.Body.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", key[strings.LastIndex(key, "/")+1:]))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))

	if _, err = io.Copy(w, object.Body); err != nil {
		slog.Error("error streaming portfolio", "error", err, "key", key)
	}
}

func (c ChildrenController) renderFormError(w http.ResponseWriter, viewData viewmodels.ChildrenPage, err error, logMessage string) {
	var v services.ValidationErrors

	if errors.As(err, &v) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		viewData.Errors = v
		viewData.IsWarning = true
		viewData.Message = "Please fix the highlighted fields."

		c.renderer.Render("pages/children/list", viewData, w)
		return
	}

	slog.Error(logMessage, "error", err)
	w.WriteHeader(http.StatusInternalServerError)
	viewData.IsError = true
	viewData.Message = "An unexpected error occurred. Please try again."

	c.renderer.Render("pages/children/list", viewData, w)
}

/*
ImportSummary is the message shown after an import is confirmed.
*/
func ImportSummary(added, skipped int) string {
	noun := "profiles"

	if added == 1 {
		noun = "profile"
	}

	message := fmt.Sprintf("Imported %d %s.", added, noun)

	if skipped > 0 {
		message += fmt.Sprintf(" %d already existed and were skipped.", skipped)
	}

	return message
}

func readChildForm(r *http.Request) viewmodels.ChildForm {
	age, _ := strconv.Atoi(strings.TrimSpace(httphelpers.GetFromRequest[string](r, "age")))

	return viewmodels.ChildForm{
		Name:        httphelpers.GetFromRequest[string](r, "name"),
		Age:         age,
		Description: httphelpers.GetFromRequest[string](r, "description"),
		AvatarEmoji: httphelpers.GetFromRequest[string](r, "avatarEmoji"),
	}
}

func toServiceForm(form viewmodels.ChildForm) services.ChildForm {
	return services.ChildForm{
		Name:        form.Name,
		Age:         form.Age,
		Description: form.Description,
		AvatarEmoji: form.AvatarEmoji,
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}
