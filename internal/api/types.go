package api

import "time"

// Book mirrors one catalog entry as the backend serializes it. Asset fields
// hold media-host URLs; either may be empty when no asset was uploaded.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	PDFFile     string `json:"pdf_file"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// HasPDF reports whether the book can be downloaded.
func (b Book) HasPDF() bool {
	return b.PDFFile != ""
}

// ParsedCreatedAt returns the creation timestamp as time.Time when possible.
func (b Book) ParsedCreatedAt() time.Time {
	return parseTime(b.CreatedAt)
}

// BookPayload is the request body for create and update. The asset fields
// are pointers so that an unchanged asset is omitted entirely and the
// backend preserves the prior value on update.
type BookPayload struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
	CoverImage  *string `json:"cover_image,omitempty"`
	PDFFile     *string `json:"pdf_file,omitempty"`
}

// bookListResponse mirrors GET /books/.
type bookListResponse struct {
	Count int    `json:"count"`
	Books []Book `json:"books"`
}

// bookEnvelope mirrors the create/update responses, which wrap the record
// in a message envelope.
type bookEnvelope struct {
	Message string `json:"message"`
	Book    Book   `json:"book"`
}

// Filter narrows a book listing. Both fields are applied server-side.
type Filter struct {
	Search string
	Genre  string
}

// User mirrors the backend account serializer, including the role flags the
// session gate checks.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	State       string `json:"state"`
	City        string `json:"city"`
	DateJoined  string `json:"date_joined"`
	IsSuperuser bool   `json:"is_superuser"`
	IsStaff     bool   `json:"is_staff"`
}

// IsAdmin reports whether the user may manage the catalog.
func (u User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// FullName joins the name fields for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// ParsedDateJoined returns the signup timestamp as time.Time when possible.
func (u User) ParsedDateJoined() time.Time {
	return parseTime(u.DateJoined)
}

// Credentials is the result of a successful login or signup.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SignupPayload is the request body for POST /auth/signup/.
type SignupPayload struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number"`
	State           string `json:"state"`
	City            string `json:"city"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password2"`
}

// userListResponse mirrors GET /auth/users/.
type userListResponse struct {
	Users []User `json:"users"`
}

// downloadResponse mirrors GET /books/{id}/download/.
type downloadResponse struct {
	DownloadURL string `json:"download_url"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999",
}

func parseTime(value string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
