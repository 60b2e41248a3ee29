package home

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/mvicenzino/kidzart/cmd/website/internal/viewmodels"
	"github.com/mvicenzino/kidzart/pkg/gallery"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
	FilterBarKey(w http.ResponseWriter, r *http.Request)
	ArtworkPage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	ArtworkService services.ArtworkServicer
	Renderer       rendering.TemplateRenderer
}

type HomeController struct {
	artworkService services.ArtworkServicer
	renderer       rendering.TemplateRenderer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		artworkService: config.ArtworkService,
		renderer:       config.Renderer,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := gallery.NewFilterFrom(gallery.ParseSelection(query))
	bar := gallery.NewFilterBar(taxonomy.Axes())

	if open := query.Get("open"); open != "" {
		cursor, _ := strconv.Atoi(query.Get("cursor"))
		bar.Restore(open, cursor)
	}

	c.renderGallery(w, r, filter, bar)
}

/*
POST /filters/key

Applies one key press to the open filter dropdown. The browser sends the
current selection, the open axis and the focused option.
*/
func (c HomeController) FilterBarKey(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	if err = r.ParseForm(); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid form")
		return
	}

	filter := gallery.NewFilterFrom(gallery.ParseSelection(r.PostForm))
	bar := gallery.NewFilterBar(taxonomy.Axes())
	cursor, _ := strconv.Atoi(r.PostForm.Get("cursor"))
	bar.Restore(r.PostForm.Get("open"), cursor)

	if _, err = bar.HandleKey(filter, r.PostForm.Get("key")); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("HX-Push-Url", pageURL(filter.Selection(), "", 0))
	c.renderGallery(w, r, filter, bar)
}

/*
GET /artworks/{id}
*/
func (c HomeController) ArtworkPage(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		artwork models.Artwork
	)

	parent := viewmodels.GetParentFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	viewData := viewmodels.ArtworkPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, "/static/js/pages/artwork.js"),
	}

	if artwork, err = c.artworkService.Get(r.Context(), parent.ID, id); err != nil {
		w.WriteHeader(http.StatusNotFound)
		viewData.IsWarning = true
		viewData.Message = "We couldn't find that artwork."

		c.renderer.Render("pages/artwork", viewData, w)
		return
	}

	viewData.Artwork = viewmodels.NewArtCard(artwork)
	viewData.CanPrint = artwork.HasImage()

	c.renderer.Render("pages/artwork", viewData, w)
}

func (c HomeController) renderGallery(w http.ResponseWriter, r *http.Request, filter *gallery.Filter, bar *gallery.FilterBar) {
	parent := viewmodels.GetParentFromContext(r)
	selection := filter.Selection()

	highlighted, browsable := gallery.Partition(c.artworkService.List(r.Context(), parent.ID))
	matching := filter.Apply(browsable)

	viewData := viewmodels.GalleryPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, "/static/js/pages/gallery.js"),
		Highlighted:   viewmodels.NewArtCards(highlighted),
		Artworks:      viewmodels.NewArtCards(matching),
		TotalCount:    len(browsable),
		FilterBar:     NewFilterBarView(bar, selection),
	}

	if len(matching) == 0 && selection.ActiveCount() > 0 {
		viewData.IsWarning = true
		viewData.Message = "No artwork matches these filters yet."
	}

	c.renderer.Render("pages/gallery", viewData, w)
}

/*
NewFilterBarView turns the filter bar state into links. Every option and
chip points at the gallery URL that results from picking it.
*/
func NewFilterBarView(bar *gallery.FilterBar, selection gallery.Selection) viewmodels.FilterBar {
	result := viewmodels.FilterBar{
		Sections:     []viewmodels.FilterSection{},
		Chips:        []viewmodels.FilterChip{},
		ShowClearAll: bar.ShowClearAll(selection),
		ActiveCount:  selection.ActiveCount(),
		ClearURL:     "/",
	}

	for _, section := range bar.Sections(selection) {
		view := viewmodels.FilterSection{
			Section:   section,
			ToggleURL: pageURL(selection, section.ID, selectedIndex(section)),
			Options:   []viewmodels.FilterOption{},
		}

		if section.Expanded {
			view.ToggleURL = pageURL(selection, "", 0)
		}

		for _, option := range section.Options {
			view.Options = append(view.Options, viewmodels.FilterOption{
				Option: option,
				URL:    pageURL(selection.With(section.ID, option.ID), "", 0),
			})
		}

		result.Sections = append(result.Sections, view)
	}

	for _, chip := range bar.Chips(selection) {
		result.Chips = append(result.Chips, viewmodels.FilterChip{
			Chip:      chip,
			RemoveURL: pageURL(selection.With(chip.Axis, gallery.All), "", 0),
		})
	}

	return result
}

// selectedIndex is where focus lands when the section is opened.
func selectedIndex(section gallery.Section) int {
	for index, option := range section.Options {
		if option.Selected {
			return index
		}
	}

	return 0
}

func pageURL(selection gallery.Selection, open string, cursor int) string {
	values := selection.Query()

	if open != "" {
		values.Set("open", open)

		if cursor > 0 {
			values.Set("cursor", fmt.Sprint(cursor))
		}
	}

	if len(values) == 0 {
		return "/"
	}

	return (&url.URL{Path: "/", RawQuery: values.Encode()}).String()
}
