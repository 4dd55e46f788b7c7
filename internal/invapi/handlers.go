package invapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"stockroom/internal/auth"
	"stockroom/internal/models"
	"stockroom/internal/repo"
)

// Handler — тонкий оркестратор: identity → права → сторы → ответ.
// Вся бизнес-логика живёт в repo, здесь только трансляция.
type Handler struct {
	users  *repo.UserStore
	invs   *repo.InventoryStore
	items  *repo.ItemStore
	tokens *auth.Tokens

	perPage    int
	maxPerPage int
}

func NewHandler(users *repo.UserStore, invs *repo.InventoryStore, items *repo.ItemStore, tokens *auth.Tokens, perPage, maxPerPage int) *Handler {
	return &Handler{
		users:      users,
		invs:       invs,
		items:      items,
		tokens:     tokens,
		perPage:    perPage,
		maxPerPage: maxPerPage,
	}
}

// writeErr транслирует ошибки сторов в таксономию HTTP-ответов.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrValidation):
		models.WriteProblem(w, http.StatusBadRequest, "Validation Failed", err.Error(), nil)
	case errors.Is(err, repo.ErrForbidden):
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "you do not have access to this inventory", nil)
	case errors.Is(err, repo.ErrNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, repo.ErrConflict):
		models.WriteProblem(w, http.StatusConflict, "Conflict", err.Error(), nil)
	default:
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected server error", nil)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body", nil)
		return false
	}
	return true
}

func pathID(r *http.Request, name string) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	return uint(id)
}

/* ---- identity collaborator ---- */

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Password) < 6 {
		models.WriteProblem(w, http.StatusBadRequest, "Validation Failed", "password must be at least 6 characters", nil)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}

	u, err := h.users.Create(r.Context(), req.Username, hash)
	if err != nil {
		writeErr(w, err)
		return
	}
	token, err := h.tokens.Generate(u.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, SessionResponse{ID: u.ID, Username: u.Username, Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.users.ByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil || auth.VerifyPassword(u.PasswordHash, req.Password) != nil {
		// единый ответ: не раскрываем, что именно не совпало
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid username or password", nil)
		return
	}
	token, err := h.tokens.Generate(u.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, SessionResponse{ID: u.ID, Username: u.Username, Token: token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	u, err := h.users.ByID(r.Context(), userID)
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, SessionResponse{ID: u.ID, Username: u.Username})
}

/* ---- inventories ---- */

func (h *Handler) ListInventories(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	invs, err := h.invs.ListForUser(r.Context(), userID)
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]InventoryDTO, 0, len(invs))
	for _, inv := range invs {
		out = append(out, InventoryDTO{ID: inv.ID, Name: inv.Name, OwnerID: inv.OwnerID})
	}
	models.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	var req CreateInventoryRequest
	if !decode(w, r, &req) {
		return
	}
	inv, err := h.invs.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, InventoryDTO{ID: inv.ID, Name: inv.Name, OwnerID: inv.OwnerID})
}

func (h *Handler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	if err := h.invs.Delete(r.Context(), userID, pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	models.WriteNoContent(w)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	var req AddMemberRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.invs.AddMember(r.Context(), userID, pathID(r, "id"), req.Username, req.Role)
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, m)
}

/* ---- items ---- */

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = h.perPage
	}
	if perPage > h.maxPerPage {
		perPage = h.maxPerPage
	}

	pageOut, err := h.items.List(r.Context(), userID, pathID(r, "id"), page, perPage)
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, pageOut)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	var req ItemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.items.Create(r.Context(), userID, pathID(r, "id"), repo.ItemInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		ParLevel: req.ParLevel,
		Unit:     req.Unit,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	var req ItemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.items.Update(r.Context(), userID, pathID(r, "id"), repo.ItemInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		ParLevel: req.ParLevel,
		Unit:     req.Unit,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) PatchQuantity(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	var req QuantityRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.items.PatchQuantity(r.Context(), userID, pathID(r, "id"), repo.QuantityPatch{
		Delta: req.Delta,
		Set:   req.Set,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	if err := h.items.Delete(r.Context(), userID, pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	models.WriteNoContent(w)
}
