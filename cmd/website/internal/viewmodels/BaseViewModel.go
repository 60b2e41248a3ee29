package viewmodels

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/mvicenzino/kidzart/pkg/models"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	Identity           models.Identity
	JavascriptIncludes []rendering.JavascriptInclude
}

/*
NewBaseViewModel fills in what every page needs from the request.
*/
func NewBaseViewModel(r *http.Request, scripts ...string) BaseViewModel {
	result := BaseViewModel{
		IsHtmx:             httphelpers.IsHtmx(r),
		Identity:           GetParentFromContext(r).Identity(),
		JavascriptIncludes: []rendering.JavascriptInclude{},
	}

	for _, src := range scripts {
		result.JavascriptIncludes = append(result.JavascriptIncludes, rendering.JavascriptInclude{Type: "module", Src: src})
	}

	return result
}

func GetParentFromContext(r *http.Request) *models.Parent {
	if result, ok := r.Context().Value("parent").(*models.Parent); ok {
		return result
	}

	return &models.Parent{}
}
