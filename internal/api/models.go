package api

// The wire format follows the external course API (an Express/Mongo service):
// records are keyed by "_id" and the API mints every id. This client never
// creates one.

// CourseInstructor is the embedded instructor block on a course record.
type CourseInstructor struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Curriculum summarizes the course structure shown on the detail page.
type Curriculum struct {
	Sections      int    `json:"sections,omitempty"`
	Lectures      int    `json:"lectures,omitempty"`
	TotalDuration string `json:"totalDuration,omitempty"`
}

// Course is a course record as consumed (not owned) by this client.
type Course struct {
	ID               string           `json:"_id,omitempty"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Instructor       CourseInstructor `json:"instructor"`
	Category         string           `json:"category"`
	Price            float64          `json:"price"`
	OriginalPrice    float64          `json:"originalPrice,omitempty"`
	Duration         string           `json:"duration"`
	Thumbnail        string           `json:"thumbnail"`
	Level            string           `json:"level,omitempty"`
	Rating           float64          `json:"rating,omitempty"`
	StudentsEnrolled int              `json:"studentsEnrolled,omitempty"`
	IsFeatured       bool             `json:"isFeatured"`
	IsNew            bool             `json:"isNew,omitempty"`
	IsBestseller     bool             `json:"isBestseller,omitempty"`
	Objectives       []string         `json:"objectives,omitempty"`
	Requirements     []string         `json:"requirements,omitempty"`
	Curriculum       *Curriculum      `json:"curriculum,omitempty"`
	CreatedAt        string           `json:"createdAt,omitempty"`
}

// Enrollment links a user to a course they joined. The record carries both
// the uid and the email; userId is the canonical query key.
type Enrollment struct {
	ID         string  `json:"_id,omitempty"`
	CourseID   string  `json:"courseId"`
	UserID     string  `json:"userId"`
	UserEmail  string  `json:"userEmail,omitempty"`
	Title      string  `json:"title"`
	Instructor string  `json:"instructor,omitempty"`
	Thumbnail  string  `json:"thumbnail,omitempty"`
	Price      float64 `json:"price,omitempty"`
}

// Instructor is a top-instructor record for the home page.
type Instructor struct {
	Name   string  `json:"name"`
	Bio    string  `json:"bio,omitempty"`
	Avatar string  `json:"avatar,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

// UpdateResult reports what a patch touched upstream. matched=1, modified=0
// means the record exists but nothing changed.
type UpdateResult struct {
	MatchedCount  int `json:"matchedCount"`
	ModifiedCount int `json:"modifiedCount"`
}

// insertResponse covers both create outcomes: an inserted id, or a message
// when the API refused a duplicate enrollment.
type insertResponse struct {
	InsertedID string `json:"insertedId"`
	Message    string `json:"message"`
}
