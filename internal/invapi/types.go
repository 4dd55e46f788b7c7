package invapi

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token,omitempty"`
}

type CreateInventoryRequest struct {
	Name string `json:"name"`
}

type InventoryDTO struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	OwnerID uint   `json:"owner_id"`
}

type AddMemberRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ItemRequest struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
	ParLevel *int   `json:"par_level"`
	Unit     string `json:"unit"`
}

// QuantityRequest — быстрый патч количества: delta либо set.
type QuantityRequest struct {
	Delta *int `json:"delta"`
	Set   *int `json:"set"`
}
