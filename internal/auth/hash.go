package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Costo fijo de bcrypt para las contraseñas de usuarios.
const bcryptCost = 12

// HashPassword genera el hash bcrypt de una contraseña en texto plano.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword informa si la contraseña coincide con el hash guardado.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
