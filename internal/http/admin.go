package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-pacer/internal/audience"
)

// adminResource binds one audience record type to CRUD handlers.
type adminResource[T any, C any, U any] struct {
	list   func(context.Context, audience.ListOptions) ([]T, int, error)
	get    func(context.Context, uuid.UUID) (T, error)
	create func(context.Context, C) (T, error)
	update func(context.Context, uuid.UUID, U) (T, error)
	remove func(context.Context, uuid.UUID) error
}

func (res adminResource[T, C, U]) register(mux *http.ServeMux, root string, guard func(http.Handler) http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, guard(fn))
	}
	handle("GET "+root, res.handleList)
	handle("POST "+root, res.handleCreate)
	handle("GET "+root+"/{id}", res.handleGet)
	handle("PUT "+root+"/{id}", res.handleUpdate)
	handle("PATCH "+root+"/{id}", res.handleUpdate)
	handle("DELETE "+root+"/{id}", res.handleDelete)
}

func (res adminResource[T, C, U]) handleList(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	items, total, err := res.list(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse[T]{Items: items, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

func (res adminResource[T, C, U]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := res.get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (res adminResource[T, C, U]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload C
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, "invalid JSON payload")
		return
	}
	record, err := res.create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (res adminResource[T, C, U]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var payload U
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, "invalid JSON payload")
		return
	}
	record, err := res.update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (res adminResource[T, C, U]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := res.remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// registerAdminRoutes mounts CRUD for the three audience tables. Nothing is
// mounted unless both tokens and the audience service are configured.
func (s *Server) registerAdminRoutes(mux *http.ServeMux, base string) {
	if s.tokens == nil || s.audience == nil {
		return
	}
	guard := s.tokens.Middleware(AdminRoles, func(w http.ResponseWriter, _ *http.Request, _ int, err error) {
		writeError(w, err)
	})
	svc := s.audience

	adminResource[*audience.WaitlistEntry, audience.WaitlistInput, audience.WaitlistUpdate]{
		list:   svc.ListWaitlistEntries,
		get:    svc.GetWaitlistEntry,
		create: svc.CreateWaitlistEntry,
		update: func(ctx context.Context, id uuid.UUID, in audience.WaitlistUpdate) (*audience.WaitlistEntry, error) {
			in.ID = id
			return svc.UpdateWaitlistEntry(ctx, in)
		},
		remove: svc.DeleteWaitlistEntry,
	}.register(mux, joinPath(base, "waitlist"), guard)

	adminResource[*audience.Subscriber, audience.SubscriberInput, audience.SubscriberUpdate]{
		list:   svc.ListSubscribers,
		get:    svc.GetSubscriber,
		create: svc.CreateSubscriber,
		update: func(ctx context.Context, id uuid.UUID, in audience.SubscriberUpdate) (*audience.Subscriber, error) {
			in.ID = id
			return svc.UpdateSubscriber(ctx, in)
		},
		remove: svc.DeleteSubscriber,
	}.register(mux, joinPath(base, "subscribers"), guard)

	adminResource[*audience.User, audience.UserInput, audience.UserUpdate]{
		list:   svc.ListUsers,
		get:    svc.GetUser,
		create: svc.CreateUser,
		update: func(ctx context.Context, id uuid.UUID, in audience.UserUpdate) (*audience.User, error) {
			in.ID = id
			return svc.UpdateUser(ctx, in)
		},
		remove: svc.DeleteUser,
	}.register(mux, joinPath(base, "users"), guard)
}
