package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/artfolio/service/internal/response"
)

// emailRegex is a loose shape check; real validation happens when mail is sent.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 8

// Handler holds HTTP handlers for account endpoints. Registration is gated by
// the shared admin secret, carried in the request body.
type Handler struct {
	svc         *Service
	adminSecret string
}

// NewHandler creates a new account Handler.
func NewHandler(svc *Service, adminSecret string) *Handler {
	return &Handler{svc: svc, adminSecret: adminSecret}
}

type registerRequest struct {
	Name          string `json:"name"          example:"Ana Duarte"`
	Email         string `json:"email"         example:"ana@example.com"`
	Password      string `json:"password"      example:"hunter2hunter2"`
	AdminPassword string `json:"admin_password" example:"s3cret"`
}

type loginRequest struct {
	Email    string `json:"email"    example:"ana@example.com"`
	Password string `json:"password" example:"hunter2hunter2"`
}

type loginData struct {
	Token string `json:"token" example:"eyJhbGci..."`
}

// Register godoc
//
//	@Summary		Register user
//	@Description	Creates an account. Requires the shared admin password in the body; this is a closed registration, not a public signup.
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Registration details"
//	@Success		201	{object}	response.Envelope{data=User}
//	@Failure		400	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		409	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.AdminPassword != h.adminSecret {
		response.Forbidden(w, "incorrect admin password")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		response.BadRequest(w, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLen {
		response.BadRequest(w, "password must be at least 8 characters")
		return
	}

	u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, ErrAlreadyExists) {
		response.Conflict(w, "email already registered")
		return
	}
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, u)
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Verifies email and password and returns a JWT valid for 12 hours.
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200	{object}	response.Envelope{data=loginData}
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(w, "email and password are required")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(w, "invalid email or password")
		return
	}
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, loginData{Token: token})
}
