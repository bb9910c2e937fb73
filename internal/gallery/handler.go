package gallery

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/artfolio/service/internal/response"
)

// maxUploadBytes caps the in-memory portion of a multipart upload.
const maxUploadBytes = 10 << 20 // 10 MiB

// Handler holds HTTP handlers for one gallery resource.
type Handler struct {
	svc *Service
}

// NewHandler creates a new gallery Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes returns the router for this resource. Reads are public; the three
// mutating routes are wrapped by gate when one is given.
func (h *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	r.Group(func(r chi.Router) {
		if gate != nil {
			r.Use(gate)
		}
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

// Create godoc
//
//	@Summary		Create item with image
//	@Description	Uploads the image to object storage, then inserts a record whose image_url points at the stored object.
//	@Tags			gallery
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title		formData	string	true	"Item title"
//	@Param			description	formData	string	false	"Item description"
//	@Param			image		formData	file	true	"Image file"
//	@Success		201	{object}	response.Envelope{data=Item}
//	@Failure		400	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/api/arts/ [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		response.BadRequest(w, "title is required")
		return
	}
	description := r.FormValue("description")

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	item, err := h.svc.CreateWithImage(r.Context(), title, description, Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, item)
}

// List godoc
//
//	@Summary		List items
//	@Description	Returns every item of this resource. No pagination, no ordering guarantee.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Item}
//	@Failure		500	{object}	response.Envelope
//	@Router			/api/arts/ [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, items)
}

// GetByID godoc
//
//	@Summary		Get item
//	@Tags			gallery
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	response.Envelope{data=Item}
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/api/arts/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "item not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, item)
}

// Update godoc
//
//	@Summary		Update item
//	@Description	Partial update: only the fields present in the body are changed.
//	@Tags			gallery
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Item ID"
//	@Param			request	body		ItemUpdate	true	"Fields to update"
//	@Success		200	{object}	response.Envelope{data=Item}
//	@Failure		400	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/api/arts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if upd.Title == nil && upd.Description == nil && upd.ImageURL == nil {
		response.BadRequest(w, "no fields to update")
		return
	}
	if upd.Title != nil && *upd.Title == "" {
		response.BadRequest(w, "title cannot be empty")
		return
	}

	item, err := h.svc.Update(r.Context(), id, upd)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "item not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, item)
}

// Delete godoc
//
//	@Summary		Delete item
//	@Description	Deletes the record. Idempotent: a missing id still reports success. The stored image object is not removed.
//	@Tags			gallery
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/api/arts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, map[string]bool{"deleted": true})
}
