package invapi

import (
	"errors"
	"net/http"
	"strings"

	"stockroom/internal/auth"
	"stockroom/internal/models"
	"stockroom/internal/repo"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Authenticate проверяет bearer-токен, резолвит пользователя
// (токен удалённого пользователя недействителен) и кладёт его id
// в контекст запроса.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), nil)
			return
		}

		userID, err := h.tokens.Parse(token)
		if err != nil {
			models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid token", nil)
			return
		}
		if _, err := h.users.ByID(r.Context(), userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid token", nil)
				return
			}
			models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "authentication error", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), userID)))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
