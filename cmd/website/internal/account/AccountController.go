package account

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/mvicenzino/kidzart/cmd/website/internal/viewmodels"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
)

type AccountHandlers interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	LoginAction(w http.ResponseWriter, r *http.Request)
	LogoutAction(w http.ResponseWriter, r *http.Request)
}

type AccountControllerConfig struct {
	ParentService  services.ParentServicer
	Renderer       rendering.TemplateRenderer
	SessionService sessions.Session[*models.Parent]
}

type AccountController struct {
	parentService  services.ParentServicer
	renderer       rendering.TemplateRenderer
	sessionService sessions.Session[*models.Parent]
}

func NewAccountController(config AccountControllerConfig) AccountController {
	return AccountController{
		parentService:  config.ParentService,
		renderer:       config.Renderer,
		sessionService: config.SessionService,
	}
}

/*
GET /account/login
*/
func (c AccountController) LoginPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.Login{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Redirect:      SafeRedirect(r.URL.Query().Get("redirect")),
	}

	c.renderer.Render("pages/account/login", viewData, w)
}

/*
POST /account/login
*/
func (c AccountController) LoginAction(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		parent *models.Parent
	)

	pageName := "pages/account/login"

	viewData := viewmodels.Login{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Passcode:      strings.TrimSpace(httphelpers.GetFromRequest[string](r, "password")),
		Redirect:      SafeRedirect(httphelpers.GetFromRequest[string](r, "redirect")),
	}

	parent, err = c.parentService.GetByPassword(viewData.Passcode)

	if errors.Is(err, models.ErrParentNotFound) || viewData.Passcode == "" {
		viewData.IsWarning = true
		viewData.Message = "That passcode was not correct. Please try again."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if err != nil {
		slog.Error("error querying for parent information", "error", err)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please try again in a moment."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if err = c.sessionService.Set(r, parent); err != nil {
		slog.Error("error setting parent session", "error", err)
	}

	if err = c.sessionService.Save(w, r); err != nil {
		slog.Error("error saving session", "error", err)
	}

	slog.Info("parent signed in", "parentID", parent.ID)
	http.Redirect(w, r, viewData.Redirect, http.StatusFound)
}

/*
GET /account/logout
*/
func (c AccountController) LogoutAction(w http.ResponseWriter, r *http.Request) {
	_ = c.sessionService.Destroy(w, r)
	_ = c.sessionService.Save(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

/*
SafeRedirect only allows redirects back into this site.
*/
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return "/"
	}

	return target
}
