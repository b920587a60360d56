package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/NC-AppointmentService/internal/api/handlers"
)

const adminTokenHeader = "X-Admin-Token"

const msgUnauthorized = "требуется административный токен"

// AdminAuth проверяет заголовок X-Admin-Token для админских маршрутов.
// Сравнение токенов выполняется за постоянное время
func AdminAuth(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(adminTokenHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
