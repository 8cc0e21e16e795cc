// Package form implements the add/edit lifecycle for one catalog record:
// a state machine that validates a draft, resolves attached media, and
// persists through the backend client. It owns no rendering; the view layer
// drives it through commands and reads its state back.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/novelia/novelia/internal/api"
	"github.com/novelia/novelia/internal/media"
)

// State enumerates the controller's lifecycle.
type State int

const (
	StateClosed State = iota
	StateCreating
	StateEditing
	StateSubmitting
)

// String returns the state name for logs and errors.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateCreating:
		return "creating"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Draft is the in-progress edit buffer: a copy of the record's editable
// fields plus at most two locally attached files. It is never partially
// persisted; submission either completes or leaves the draft intact.
type Draft struct {
	Title       string `validate:"required"`
	Author      string `validate:"required"`
	Genre       string `validate:"required"`
	Description string

	// CoverPath and PDFPath are local filesystem paths for freshly
	// attached assets. Empty means no new file: "none" on create,
	// "leave unchanged" on update. Existing assets are write-only and
	// never round-trip through the draft.
	CoverPath string
	PDFPath   string
}

// Result reports a completed submission.
type Result struct {
	Book    api.Book
	Created bool
}

// Controller sequences the modal's state machine. It is not safe for
// concurrent use; in this application a single logical task drives it.
type Controller struct {
	books   api.BookService
	uploads media.Uploader

	state  State
	draft  Draft
	editID int64
}

// NewController wires the backend client and the media uploader.
func NewController(books api.BookService, uploads media.Uploader) *Controller {
	return &Controller{books: books, uploads: uploads}
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft { return c.draft }

// SetDraft replaces the draft fields. The view calls this as the user
// types; it is a no-op outside Creating/Editing.
func (c *Controller) SetDraft(d Draft) {
	if c.state == StateCreating || c.state == StateEditing {
		c.draft = d
	}
}

// EditingID returns the identifier of the record being edited, or 0 when
// creating.
func (c *Controller) EditingID() int64 { return c.editID }

// OpenCreate enters Creating with a blank draft. No fetch is required.
func (c *Controller) OpenCreate() {
	c.state = StateCreating
	c.draft = Draft{}
	c.editID = 0
}

// OpenEdit fetches the record and enters Editing with its editable fields
// copied into the draft. On fetch failure the controller stays Closed.
func (c *Controller) OpenEdit(ctx context.Context, id int64) error {
	book, err := c.books.GetBook(ctx, id)
	if err != nil {
		return fmt.Errorf("load book %d: %w", id, err)
	}
	c.state = StateEditing
	c.editID = book.ID
	c.draft = Draft{
		Title:       book.Title,
		Author:      book.Author,
		Genre:       book.Genre,
		Description: book.Description,
	}
	return nil
}

// Close discards the draft and returns to Closed.
func (c *Controller) Close() {
	c.state = StateClosed
	c.draft = Draft{}
	c.editID = 0
}

// Submit runs the submission sequence: local validation, media uploads,
// then exactly one create or update. On success the controller closes and
// the caller refreshes the listing. On failure the prior state and draft
// survive so the user can retry; attached file paths are cleared only when
// the upload step itself failed, since those files must be re-attached.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	if c.state != StateCreating && c.state != StateEditing {
		return Result{}, fmt.Errorf("submit from %s state", c.state)
	}

	prior := c.state
	c.state = StateSubmitting

	result, err := c.submit(ctx, prior == StateEditing)
	if err != nil {
		c.state = prior
		var uerr *uploadError
		if errors.As(err, &uerr) {
			c.draft.CoverPath = ""
			c.draft.PDFPath = ""
			return Result{}, uerr.err
		}
		return Result{}, err
	}

	c.Close()
	return result, nil
}

func (c *Controller) submit(ctx context.Context, updating bool) (Result, error) {
	c.normalize()
	if err := c.validate(); err != nil {
		return Result{}, err
	}

	coverURL, pdfURL, err := c.resolveAssets(ctx)
	if err != nil {
		return Result{}, &uploadError{err: err}
	}

	payload := api.BookPayload{
		Title:       c.draft.Title,
		Author:      c.draft.Author,
		Genre:       c.draft.Genre,
		Description: c.draft.Description,
		CoverImage:  coverURL,
		PDFFile:     pdfURL,
	}

	if updating {
		book, err := c.books.UpdateBook(ctx, c.editID, payload)
		if err != nil {
			return Result{}, err
		}
		return Result{Book: book}, nil
	}

	book, err := c.books.CreateBook(ctx, payload)
	if err != nil {
		return Result{}, err
	}
	return Result{Book: book, Created: true}, nil
}

// resolveAssets uploads the attached files. The two categories are issued
// concurrently; both must succeed before any record mutation, and a partial
// failure aborts the whole submission.
func (c *Controller) resolveAssets(ctx context.Context) (cover, pdf *string, err error) {
	if c.draft.CoverPath == "" && c.draft.PDFPath == "" {
		return nil, nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if path := c.draft.CoverPath; path != "" {
		g.Go(func() error {
			url, err := c.uploads.Upload(gctx, path, media.CategoryCover)
			if err != nil {
				return err
			}
			cover = &url
			return nil
		})
	}
	if path := c.draft.PDFPath; path != "" {
		g.Go(func() error {
			url, err := c.uploads.Upload(gctx, path, media.CategoryDocument)
			if err != nil {
				return err
			}
			pdf = &url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return cover, pdf, nil
}

func (c *Controller) normalize() {
	c.draft.Title = strings.TrimSpace(c.draft.Title)
	c.draft.Author = strings.TrimSpace(c.draft.Author)
	c.draft.Genre = strings.TrimSpace(c.draft.Genre)
	c.draft.Description = strings.TrimSpace(c.draft.Description)
	c.draft.CoverPath = strings.TrimSpace(c.draft.CoverPath)
	c.draft.PDFPath = strings.TrimSpace(c.draft.PDFPath)
}

// uploadError marks a failure in the upload step so Submit can tell it
// apart from validation and persistence failures.
type uploadError struct {
	err error
}

func (e *uploadError) Error() string { return e.err.Error() }
func (e *uploadError) Unwrap() error { return e.err }
