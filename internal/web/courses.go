package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rashel9255/online-learning-platform-client/internal/api"
	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

// HandleCourses renders the catalog with client-side filtering: free-text
// title match and category equality, applied after the fetch.
func (h *Handler) HandleCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.api.ListCourses(r.Context())
	if err != nil {
		h.renderError(w, r, "All Courses", "Failed to load courses. Please try again.")
		return
	}

	query := trimmed(r.URL.Query().Get("q"))
	category := trimmed(r.URL.Query().Get("category"))

	data := h.newPageData(w, r, "All Courses")
	data.Categories = categoriesOf(courses)
	data.Courses = filterCourses(courses, query, category)
	data.Query = query
	data.Category = category
	h.render(w, "courses", http.StatusOK, data)
}

func filterCourses(courses []api.Course, query, category string) []api.Course {
	if query == "" && category == "" {
		return courses
	}
	needle := strings.ToLower(query)
	out := make([]api.Course, 0, len(courses))
	for _, c := range courses {
		if needle != "" && !strings.Contains(strings.ToLower(c.Title), needle) {
			continue
		}
		if category != "" && c.Category != category {
			continue
		}
		out = append(out, c)
	}
	return out
}

// HandleCourseDetail renders one course. The page is session-gated, so a
// user is always present; their enrollment state decides how the enroll
// button renders.
func (h *Handler) HandleCourseDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	course, err := h.api.GetCourse(r.Context(), id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.renderError(w, r, "Course", "Course not found or failed to load.")
			return
		}
		h.renderError(w, r, "Course", "Failed to load course details. Please try again.")
		return
	}

	data := h.newPageData(w, r, course.Title)
	data.Course = course
	if user := h.sessions.State().User; user != nil {
		enrollments, err := h.api.ListEnrollmentsByCourse(r.Context(), user.UID, id)
		if err != nil {
			// The page still renders; only the enrolled badge is unknown.
			h.logger.Warn("enrollment lookup failed", "course_id", id, "error", err)
		}
		data.Enrolled = len(enrollments) > 0
	}
	h.render(w, "course_detail", http.StatusOK, data)
}

// HandleEnroll submits an enrollment for the signed-in user. A duplicate is
// surfaced as an informational notice, not a failure.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := h.sessions.State().User
	if user == nil {
		http.Redirect(w, r, "/login?from="+r.URL.EscapedPath(), http.StatusSeeOther)
		return
	}

	course, err := h.api.GetCourse(r.Context(), id)
	if err != nil {
		h.addFlash(w, r, "error", "Failed to enroll. Please try again.")
		http.Redirect(w, r, "/courses/"+id, http.StatusSeeOther)
		return
	}

	_, err = h.api.CreateEnrollment(r.Context(), api.Enrollment{
		CourseID:   course.ID,
		UserID:     user.UID,
		UserEmail:  user.Email,
		Title:      course.Title,
		Instructor: course.Instructor.Name,
		Thumbnail:  course.Thumbnail,
		Price:      course.Price,
	})
	switch {
	case err == nil:
		h.addFlash(w, r, "success", "Enrolled successfully!")
	case dErrors.HasCode(err, dErrors.CodeDuplicate):
		h.addFlash(w, r, "info", "You are already enrolled in this course.")
	default:
		h.addFlash(w, r, "error", "Failed to enroll. Please try again.")
	}
	http.Redirect(w, r, "/courses/"+id, http.StatusSeeOther)
}
