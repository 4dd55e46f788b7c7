package invapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает API на /api. Signup/login — публичные,
// всё остальное за Authenticate.
func RegisterRoutes(r *mux.Router, h *Handler) {
	pub := r.PathPrefix("/api").Subrouter()
	pub.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	pub.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.Authenticate)

	api.HandleFunc("/me", h.Me).Methods(http.MethodGet)

	api.HandleFunc("/inventories", h.ListInventories).Methods(http.MethodGet)
	api.HandleFunc("/inventories", h.CreateInventory).Methods(http.MethodPost)
	api.HandleFunc("/inventories/{id:[0-9]+}", h.DeleteInventory).Methods(http.MethodDelete)
	api.HandleFunc("/inventories/{id:[0-9]+}/members", h.AddMember).Methods(http.MethodPost)

	api.HandleFunc("/inventories/{id:[0-9]+}/items", h.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/inventories/{id:[0-9]+}/items", h.CreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id:[0-9]+}", h.UpdateItem).Methods(http.MethodPatch)
	api.HandleFunc("/items/{id:[0-9]+}/quantity", h.PatchQuantity).Methods(http.MethodPatch)
	api.HandleFunc("/items/{id:[0-9]+}", h.DeleteItem).Methods(http.MethodDelete)
}
