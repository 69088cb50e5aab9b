// Package api maps HTTP verbs and paths to note store operations, handles
// JSON/HTML content negotiation, and translates store errors to statuses.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/kuitang/notes-service/internal/errs"
	"github.com/kuitang/notes-service/internal/notes"
	"github.com/kuitang/notes-service/internal/obs"
	"github.com/kuitang/notes-service/internal/web"
)

// Handler wraps the note store and provides HTTP handlers.
type Handler struct {
	store    notes.Store
	renderer *web.Renderer
	static   *web.StaticHandler
}

// NewHandler creates an API handler. renderer and static may be nil, in
// which case HTML-preferring clients receive JSON and no assets are served.
func NewHandler(store notes.Store, renderer *web.Renderer, static *web.StaticHandler) *Handler {
	return &Handler{store: store, renderer: renderer, static: static}
}

// RegisterRoutes registers all routes on the given mux. The bare "/"
// pattern doubles as the landing page, static asset server, and the
// unknown-endpoint fallback.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notes", h.ListNotes)
	mux.HandleFunc("POST /api/notes", h.CreateNote)
	mux.HandleFunc("GET /api/notes/new", h.NewNoteForm)
	mux.HandleFunc("GET /api/notes/{id}", h.GetNote)
	mux.HandleFunc("PUT /api/notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", h.DeleteNote)
	mux.HandleFunc("POST /api/notes/{id}", h.OverrideNote)
	mux.HandleFunc("GET /api/notes/{id}/edit", h.EditNoteForm)
	mux.HandleFunc("GET /api/notes/{id}/delete", h.DeleteNoteConfirm)
	mux.HandleFunc("/", h.Fallback)
}

// Fallback serves the greeting on "/", then static assets, then the
// unknown-endpoint response. Registered without a method so unmatched
// verbs land here instead of the mux's plain-text 405.
func (h *Handler) Fallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		h.greeting(w, r)
		return
	}
	if h.static != nil && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		if h.static.TryServe(w, r) {
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown endpoint")
}

func (h *Handler) greeting(w http.ResponseWriter, r *http.Request) {
	if h.wantsHTML(r) {
		h.renderPage(w, r, http.StatusOK, "home.html", web.PageData{Title: "Home"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Notes API up and running\n")
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	repr := negotiate(r)
	if repr == reprNone {
		writeError(w, http.StatusNotAcceptable, "not acceptable")
		return
	}

	all, err := h.store.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if repr == reprHTML && h.renderer != nil {
		h.renderPage(w, r, http.StatusOK, "notes/list.html", web.NoteListData{
			PageData: web.PageData{Title: "All Notes"},
			Notes:    all,
		})
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	repr := negotiate(r)
	if repr == reprNone {
		writeError(w, http.StatusNotAcceptable, "not acceptable")
		return
	}

	note, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if repr == reprHTML && h.renderer != nil {
		h.renderPage(w, r, http.StatusOK, "notes/detail.html", web.NoteData{
			PageData: web.PageData{Title: "Note #" + note.ID},
			Note:     *note,
		})
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// rejectUnacceptable writes the 406 response for clients that accept
// neither JSON nor HTML. Negotiation applies before any handler work, so
// a rejected mutation never reaches the store.
func rejectUnacceptable(w http.ResponseWriter, r *http.Request) bool {
	if negotiate(r) != reprNone {
		return false
	}
	writeError(w, http.StatusNotAcceptable, "not acceptable")
	return true
}

// CreateNote handles POST /api/notes for both JSON bodies and HTML form
// submissions.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	if rejectUnacceptable(w, r) {
		return
	}

	var params notes.CreateNoteParams
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "malformed form body")
			return
		}
		params = createParamsFromForm(r)
	} else {
		if err := decodeJSONBody(r, &params); err != nil {
			writeError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
	}

	note, err := h.store.Create(r.Context(), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if h.wantsHTML(r) {
		http.Redirect(w, r, "/api/notes", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	if rejectUnacceptable(w, r) {
		return
	}

	var patch notes.UpdateNoteParams
	if err := decodeJSONBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	h.applyUpdate(w, r, r.PathValue("id"), patch)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if rejectUnacceptable(w, r) {
		return
	}
	h.applyDelete(w, r, r.PathValue("id"))
}

// OverrideNote handles POST /api/notes/{id}: HTML forms cannot send PUT or
// DELETE, so the body carries a _method override field.
func (h *Handler) OverrideNote(w http.ResponseWriter, r *http.Request) {
	if rejectUnacceptable(w, r) {
		return
	}

	id := r.PathValue("id")

	var method string
	var patch notes.UpdateNoteParams
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "malformed form body")
			return
		}
		method = r.PostFormValue("_method")
		patch = updateParamsFromForm(r)
	} else {
		var body struct {
			Method string `json:"_method"`
			notes.UpdateNoteParams
		}
		if err := decodeJSONBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		method = body.Method
		patch = body.UpdateNoteParams
	}

	switch strings.ToUpper(strings.TrimSpace(method)) {
	case http.MethodPut:
		h.applyUpdate(w, r, id, patch)
	case http.MethodDelete:
		h.applyDelete(w, r, id)
	default:
		writeError(w, http.StatusBadRequest, "invalid method override")
	}
}

// NewNoteForm handles GET /api/notes/new (HTML only).
func (h *Handler) NewNoteForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "notes/new.html", web.PageData{Title: "Create New Note"})
}

// EditNoteForm handles GET /api/notes/{id}/edit (HTML only). Absent notes
// redirect back to the listing, matching the form flow.
func (h *Handler) EditNoteForm(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/api/notes", http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, http.StatusOK, "notes/edit.html", web.NoteData{
		PageData: web.PageData{Title: "Edit Note #" + note.ID},
		Note:     *note,
	})
}

// DeleteNoteConfirm handles GET /api/notes/{id}/delete (HTML only).
func (h *Handler) DeleteNoteConfirm(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/api/notes", http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, http.StatusOK, "notes/delete.html", web.NoteData{
		PageData: web.PageData{Title: "Delete Note #" + note.ID},
		Note:     *note,
	})
}

func (h *Handler) applyUpdate(w http.ResponseWriter, r *http.Request, id string, patch notes.UpdateNoteParams) {
	note, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if h.wantsHTML(r) {
		http.Redirect(w, r, "/api/notes/"+note.ID, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) applyDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	if h.wantsHTML(r) {
		http.Redirect(w, r, "/api/notes", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondError translates a store error into the fixed status and a
// normalized body; internal detail goes to the log, never the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.CodeOf(err)
	status := errs.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		obs.From(r.Context()).Error("request_failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", string(code),
			"err", err.Error(),
		)
	}

	if h.wantsHTML(r) && h.renderer != nil {
		h.renderPage(w, r, status, "error.html", web.ErrorData{
			PageData: web.PageData{Title: http.StatusText(status)},
			Code:     status,
			Message:  errs.MessageOf(err),
		})
		return
	}
	writeError(w, status, errs.MessageOf(err))
}

func (h *Handler) wantsHTML(r *http.Request) bool {
	return h.renderer != nil && negotiate(r) == reprHTML
}

// renderPage renders an HTML page, falling back to JSON when no renderer
// is configured.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if h.renderer == nil {
		writeJSON(w, status, data)
		return
	}
	if err := h.renderer.Render(w, status, name, data); err != nil {
		obs.From(r.Context()).Error("render_failed", "template", name, "err", err.Error())
	}
}

// decodeJSONBody decodes a JSON body, treating an empty body as the zero
// value so validation can report the missing field instead of a parse
// error.
func decodeJSONBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func isFormRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

func createParamsFromForm(r *http.Request) notes.CreateNoteParams {
	params := notes.CreateNoteParams{
		Content:  strings.TrimSpace(r.PostFormValue("content")),
		Category: strings.TrimSpace(r.PostFormValue("category")),
	}
	if formBool(r.PostFormValue("important")) {
		important := true
		params.Important = &important
	}
	return params
}

func updateParamsFromForm(r *http.Request) notes.UpdateNoteParams {
	var patch notes.UpdateNoteParams
	if content := strings.TrimSpace(r.PostFormValue("content")); content != "" {
		patch.Content = &content
	}
	if category := strings.TrimSpace(r.PostFormValue("category")); category != "" {
		patch.Category = &category
	}
	if _, ok := r.PostForm["important"]; ok {
		important := formBool(r.PostFormValue("important"))
		patch.Important = &important
	}
	return patch
}

// formBool interprets HTML checkbox values.
func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// ErrorResponse is the normalized API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
