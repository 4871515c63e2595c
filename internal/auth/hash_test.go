package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("Secreta123!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "Secreta123!" {
		t.Fatal("el hash no puede ser el texto plano")
	}
	if !CheckPassword(h, "Secreta123!") {
		t.Fatal("la contraseña correcta debe verificar")
	}
	if CheckPassword(h, "otra") {
		t.Fatal("una contraseña incorrecta no debe verificar")
	}
}
