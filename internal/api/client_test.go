package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewClient_NormalizesBaseURL(t *testing.T) {
	c, err := NewClient("  127.0.0.1:8000/api/  ", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.baseURL != "http://127.0.0.1:8000/api" {
		t.Fatalf("baseURL = %q, want scheme added and trailing slash trimmed", c.baseURL)
	}

	if _, err := NewClient("   ", nil); err == nil {
		t.Fatalf("NewClient accepted empty base url")
	}
}

func TestClient_ListBooksEncodesFilter(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/books/" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(bookListResponse{
			Count: 1,
			Books: []Book{{ID: 7, Title: "Things Fall Apart", Author: "Achebe", Genre: "Fiction"}},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	books, err := c.ListBooks(testContext(t), Filter{Search: "fall", Genre: "Fiction"})
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if len(books) != 1 || books[0].ID != 7 {
		t.Fatalf("ListBooks = %#v, want 1 book id=7", books)
	}
	if gotQuery.Get("search") != "fall" || gotQuery.Get("genre") != "Fiction" {
		t.Fatalf("query = %v, want search and genre encoded", gotQuery)
	}
}

func TestClient_CreateBookSendsTokenAndBody(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/create/" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(bookEnvelope{
			Message: "Book created successfully",
			Book:    Book{ID: 11, Title: "Dune"},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticToken("tok123"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	book, err := c.CreateBook(testContext(t), BookPayload{
		Title:  "Dune",
		Author: "Herbert",
		Genre:  "Sci-Fi",
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if book.ID != 11 {
		t.Fatalf("CreateBook id = %d, want 11", book.ID)
	}
	if gotAuth != "Token tok123" {
		t.Fatalf("Authorization = %q, want token header", gotAuth)
	}
	if _, present := gotBody["cover_image"]; present {
		t.Fatalf("payload carries cover_image, want it omitted when no upload happened")
	}
	if _, present := gotBody["pdf_file"]; present {
		t.Fatalf("payload carries pdf_file, want it omitted when no upload happened")
	}
	if gotBody["title"] != "Dune" || gotBody["author"] != "Herbert" {
		t.Fatalf("payload = %v, want draft fields present", gotBody)
	}
}

func TestClient_UpdateBookIncludesFreshAssets(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/3/update/" || r.Method != http.MethodPut {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(bookEnvelope{Book: Book{ID: 3}})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticToken("tok"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	cover := "https://media.example.com/cover.png"
	_, err = c.UpdateBook(testContext(t), 3, BookPayload{Title: "T", Author: "A", Genre: "G", CoverImage: &cover})
	if err != nil {
		t.Fatalf("UpdateBook returned error: %v", err)
	}
	if gotBody["cover_image"] != cover {
		t.Fatalf("cover_image = %v, want fresh upload URL", gotBody["cover_image"])
	}
	if _, present := gotBody["pdf_file"]; present {
		t.Fatalf("payload carries pdf_file, want it omitted so the backend keeps the prior value")
	}
}

func TestClient_StatusCodeTaxonomy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Invalid token."}`, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{"detail":"no"}`, ErrForbidden},
		{"not found", http.StatusNotFound, `{"error":"Book not found"}`, ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL, staticToken("tok"))
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			_, err = c.GetBook(testContext(t), 1)
			if !errors.Is(err, tc.want) {
				t.Fatalf("GetBook error = %v, want errors.Is %v", err, tc.want)
			}
		})
	}
}

func TestClient_BadRequestBecomesValidationError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"title":["This field may not be blank."],"genre":["This field is required."]}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticToken("tok"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.CreateBook(testContext(t), BookPayload{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CreateBook error = %v, want *ValidationError", err)
	}
	if verr.FieldError("title") != "This field may not be blank." {
		t.Fatalf("title message = %q, want backend message preserved", verr.FieldError("title"))
	}
	if len(verr.Fields["genre"]) != 1 {
		t.Fatalf("genre messages = %v, want 1 message", verr.Fields["genre"])
	}
}

func TestClient_TransportFailureIsUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListBooks(testContext(t), Filter{})
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("ListBooks error = %v, want errors.Is ErrUnreachable", err)
	}
}

func TestClient_LoginReturnsCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ada@example.com" || body["password"] != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Invalid email or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Credentials{
			Token: "tok456",
			User:  User{Email: "ada@example.com", IsStaff: true},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	creds, err := c.Login(testContext(t), "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if creds.Token != "tok456" || !creds.User.IsAdmin() {
		t.Fatalf("Login = %#v, want token and staff flag", creds)
	}
}

func TestClient_CurrentUserSendsTokenAndDecodesProfile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/user/" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Token tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(User{
			ID:        7,
			Email:     "ada@example.com",
			FirstName: "Ada",
			City:      "London",
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticToken("tok123"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	user, err := c.CurrentUser(testContext(t))
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.ID != 7 || user.FirstName != "Ada" || user.City != "London" {
		t.Fatalf("CurrentUser = %#v, want decoded profile", user)
	}

	revoked, err := NewClient(server.URL, staticToken("stale"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := revoked.CurrentUser(testContext(t)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("CurrentUser with revoked token = %v, want ErrUnauthorized", err)
	}
}

func TestClient_DownloadBookStreamsResolvedURL(t *testing.T) {
	t.Parallel()

	const pdfBody = "%PDF-1.4 fake"
	var mediaHits int
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaHits++
		_, _ = w.Write([]byte(pdfBody))
	}))
	t.Cleanup(media.Close)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(downloadResponse{DownloadURL: media.URL + "/books/pdfs/x.pdf"})
	}))
	t.Cleanup(backend.Close)

	c, err := NewClient(backend.URL, staticToken("tok"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := c.DownloadBook(testContext(t), 5, &buf); err != nil {
		t.Fatalf("DownloadBook returned error: %v", err)
	}
	if buf.String() != pdfBody {
		t.Fatalf("downloaded body = %q, want %q", buf.String(), pdfBody)
	}
	if mediaHits != 1 {
		t.Fatalf("media host hits = %d, want 1", mediaHits)
	}
}

func TestClient_DownloadBookWithoutPDFIsNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"PDF file not available for this book"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticToken("tok"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.DownloadBook(testContext(t), 5, &bytes.Buffer{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("DownloadBook error = %v, want errors.Is ErrNotFound", err)
	}
}
