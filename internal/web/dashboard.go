package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rashel9255/online-learning-platform-client/internal/api"
	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

// Dashboard pages are session-gated by the route guard; handlers can rely on
// a user being present.

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard/enrolled", http.StatusSeeOther)
}

// HandleEnrolledCourses lists the signed-in user's enrollments.
func (h *Handler) HandleEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.State().User

	enrollments, err := h.api.ListEnrollments(r.Context(), user.UID)
	if err != nil {
		h.renderError(w, r, "My Enrolled Courses", "Failed to load your enrolled courses")
		return
	}

	data := h.newPageData(w, r, "My Enrolled Courses")
	data.Enrollments = enrollments
	h.render(w, "enrolled", http.StatusOK, data)
}

// HandleUnenroll removes one enrollment record.
func (h *Handler) HandleUnenroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.api.DeleteEnrollment(r.Context(), id); err != nil {
		h.addFlash(w, r, "error", "Failed to remove the enrollment. Please try again.")
	} else {
		h.addFlash(w, r, "success", "Enrollment removed.")
	}
	http.Redirect(w, r, "/dashboard/enrolled", http.StatusSeeOther)
}

// HandleMyCourses lists the courses the signed-in user authored. Ownership
// is keyed by instructor email, the shape the external API fixes.
func (h *Handler) HandleMyCourses(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.State().User

	courses, err := h.api.ListCoursesByOwner(r.Context(), user.Email)
	if err != nil {
		h.renderError(w, r, "My Added Courses", "Failed to load courses")
		return
	}

	data := h.newPageData(w, r, "My Added Courses")
	data.Courses = courses
	h.render(w, "my_courses", http.StatusOK, data)
}

func (h *Handler) HandleAddCoursePage(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData(w, r, "Add Course")
	data.Form = map[string]string{}
	h.render(w, "add_course", http.StatusOK, data)
}

func (h *Handler) HandleAddCourse(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseCourseForm(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(form); err != nil {
		data := h.newPageData(w, r, "Add Course")
		data.FormError = validationMessage(err)
		data.Form = courseFormValues(form)
		h.render(w, "add_course", http.StatusOK, data)
		return
	}

	user := h.sessions.State().User
	course := api.Course{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Price:       form.Price,
		Duration:    form.Duration,
		Thumbnail:   form.Thumbnail,
		IsFeatured:  form.IsFeatured,
		Instructor: api.CourseInstructor{
			Name:   user.DisplayName,
			Email:  user.Email,
			Avatar: user.PhotoURL,
		},
	}

	if _, err := h.api.CreateCourse(r.Context(), course); err != nil {
		data := h.newPageData(w, r, "Add Course")
		data.FormError = "Failed to add course. Please try again."
		data.Form = courseFormValues(form)
		h.render(w, "add_course", http.StatusOK, data)
		return
	}

	h.addFlash(w, r, "success", "Course Added Successfully!")
	http.Redirect(w, r, "/dashboard/my-courses", http.StatusSeeOther)
}

func (h *Handler) HandleUpdateCoursePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	course, err := h.api.GetCourse(r.Context(), id)
	if err != nil {
		h.renderError(w, r, "Update Course", "Course not found or failed to load.")
		return
	}

	data := h.newPageData(w, r, "Update Course")
	data.Course = course
	data.Form = map[string]string{
		"title":       course.Title,
		"thumbnail":   course.Thumbnail,
		"price":       strconv.FormatFloat(course.Price, 'f', -1, 64),
		"duration":    course.Duration,
		"category":    course.Category,
		"description": course.Description,
		"isFeatured":  strconv.FormatBool(course.IsFeatured),
	}
	h.render(w, "update_course", http.StatusOK, data)
}

// HandleUpdateCourse patches a course. matched without modified means the
// submit changed nothing, which is reported as exactly that.
func (h *Handler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form, err := h.parseCourseForm(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(form); err != nil {
		data := h.newPageData(w, r, "Update Course")
		data.FormError = validationMessage(err)
		data.Form = courseFormValues(form)
		h.render(w, "update_course", http.StatusOK, data)
		return
	}

	patch := map[string]any{
		"title":       form.Title,
		"thumbnail":   form.Thumbnail,
		"price":       form.Price,
		"duration":    form.Duration,
		"category":    form.Category,
		"description": form.Description,
		"isFeatured":  form.IsFeatured,
	}

	result, err := h.api.UpdateCourse(r.Context(), id, patch)
	switch {
	case err != nil && dErrors.HasCode(err, dErrors.CodeNotFound):
		h.addFlash(w, r, "error", "Course no longer exists.")
	case err != nil:
		h.addFlash(w, r, "error", "Failed to update course. Please try again.")
	case result.MatchedCount > 0 && result.ModifiedCount == 0:
		h.addFlash(w, r, "info", "No changes were made.")
	case result.ModifiedCount > 0:
		h.addFlash(w, r, "success", "Course updated successfully!")
	default:
		h.addFlash(w, r, "error", "Course no longer exists.")
	}
	http.Redirect(w, r, "/dashboard/my-courses", http.StatusSeeOther)
}

func (h *Handler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.api.DeleteCourse(r.Context(), id); err != nil {
		h.addFlash(w, r, "error", "Something went wrong while deleting the course.")
	} else {
		h.addFlash(w, r, "success", "Your course has been deleted successfully.")
	}
	http.Redirect(w, r, "/dashboard/my-courses", http.StatusSeeOther)
}

func (h *Handler) parseCourseForm(r *http.Request) (courseForm, error) {
	if err := r.ParseForm(); err != nil {
		return courseForm{}, err
	}
	price, _ := strconv.ParseFloat(trimmed(r.PostFormValue("price")), 64)
	return courseForm{
		Title:       trimmed(r.PostFormValue("title")),
		Thumbnail:   trimmed(r.PostFormValue("thumbnail")),
		Price:       price,
		Duration:    trimmed(r.PostFormValue("duration")),
		Category:    trimmed(r.PostFormValue("category")),
		Description: trimmed(r.PostFormValue("description")),
		IsFeatured:  r.PostFormValue("isFeatured") == "on",
	}, nil
}

func courseFormValues(f courseForm) map[string]string {
	return map[string]string{
		"title":       f.Title,
		"thumbnail":   f.Thumbnail,
		"price":       strconv.FormatFloat(f.Price, 'f', -1, 64),
		"duration":    f.Duration,
		"category":    f.Category,
		"description": f.Description,
		"isFeatured":  strconv.FormatBool(f.IsFeatured),
	}
}
