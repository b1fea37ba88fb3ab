package main

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/middleware"
	"github.com/kbukum/rpckit/procedure"
	"github.com/kbukum/rpckit/router"
	"github.com/kbukum/rpckit/validation"
)

// session is the call context built from each request.
type session struct {
	User string
}

type note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type listInput struct {
	Limit  int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Cursor string `json:"cursor,omitempty"`
}

type listOutput struct {
	Items      []note `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type getInput struct {
	ID string `json:"id" validate:"required"`
}

type createInput struct {
	Title string `json:"title" validate:"required,max=120"`
	Body  string `json:"body" validate:"max=4000"`
}

type noteStore struct {
	mu    sync.RWMutex
	notes []note
}

func newNoteStore() *noteStore {
	return &noteStore{}
}

func (s *noteStore) add(n note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
}

func (s *noteStore) page(offset, limit int) ([]note, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if offset >= len(s.notes) {
		return nil, len(s.notes)
	}
	end := min(offset+limit, len(s.notes))
	return slices.Clone(s.notes[offset:end]), len(s.notes)
}

func (s *noteStore) get(id string) (note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.notes, func(n note) bool { return n.ID == id })
	if i < 0 {
		return note{}, false
	}
	return s.notes[i], true
}

func (s *noteStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// requireUser rejects anonymous callers.
func requireUser(_ context.Context, s session, _ string) error {
	if s.User == "" {
		return errors.Unauthorized("sign in to write notes")
	}
	return nil
}

func newRouter(store *noteStore, pageSize int) *router.Router[session] {
	list := procedure.MustNew(procedure.Definition[session, listInput, listOutput]{
		Input: validation.Struct[listInput](),
		Resolve: func(_ context.Context, opts procedure.ResolverOptions[session, listInput]) (listOutput, error) {
			limit := opts.Input.Limit
			if limit == 0 {
				limit = pageSize
			}
			offset := 0
			if opts.Input.Cursor != "" {
				n, err := strconv.Atoi(opts.Input.Cursor)
				if err != nil || n < 0 {
					return listOutput{}, errors.BadRequest("invalid cursor")
				}
				offset = n
			}
			items, total := store.page(offset, limit)
			out := listOutput{Items: items}
			if next := offset + len(items); next < total {
				out.NextCursor = strconv.Itoa(next)
			}
			return out, nil
		},
	})

	get := procedure.MustNew(procedure.Definition[session, getInput, note]{
		Input: validation.Struct[getInput]().Check(func(c *validation.Checks, in getInput) {
			c.UUID("id", in.ID)
		}),
		Resolve: func(_ context.Context, opts procedure.ResolverOptions[session, getInput]) (note, error) {
			n, ok := store.get(opts.Input.ID)
			if !ok {
				return note{}, errors.New(errors.ErrCodeNotFound, "note not found").WithDetail("id", opts.Input.ID)
			}
			return n, nil
		},
	})

	count := procedure.MustNew(procedure.Definition[session, struct{}, int]{
		Resolve: func(context.Context, procedure.ResolverOptions[session, struct{}]) (int, error) {
			return store.count(), nil
		},
	})

	create := procedure.MustNew(procedure.Definition[session, createInput, note]{
		Input: validation.Struct[createInput](),
		Resolve: func(_ context.Context, opts procedure.ResolverOptions[session, createInput]) (note, error) {
			n := note{
				ID:        uuid.NewString(),
				Title:     opts.Input.Title,
				Body:      opts.Input.Body,
				Author:    opts.Context.User,
				CreatedAt: time.Now().UTC(),
			}
			store.add(n)
			return n, nil
		},
	}).InheritMiddlewares(middleware.Authorize[session](requireUser))

	return router.New[session]().
		Query("notes.list", list).
		Query("notes.get", get).
		Query("notes.count", count).
		Mutation("notes.create", create)
}
