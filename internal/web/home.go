package web

import (
	"net/http"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rashel9255/online-learning-platform-client/internal/api"
)

// HandleHome renders the landing page. The popular-course and top-instructor
// sections load from independent endpoints, so they are fetched in parallel;
// either section failing degrades that section only.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	var (
		popular     []api.Course
		instructors []api.Instructor
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		popular, err = h.api.PopularCourses(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		instructors, err = h.api.TopInstructors(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger.Warn("home sections failed to load", "error", err)
		h.renderError(w, r, "Home", "Failed to load the home page. Please try again.")
		return
	}

	data := h.newPageData(w, r, "Home")
	data.Courses = popular
	data.Instructors = instructors
	data.Categories = categoriesOf(popular)
	h.render(w, "home", http.StatusOK, data)
}

// categoriesOf collects the distinct categories present in the catalog for
// the filter dropdown.
func categoriesOf(courses []api.Course) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range courses {
		if c.Category == "" {
			continue
		}
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	sort.Strings(out)
	return out
}
