package service

import "golang.org/x/crypto/bcrypt"

// HashPassword deriva un hash bcrypt con salt aleatorio del password en claro.
func HashPassword(plaintext string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// VerifyPassword compara un candidato contra el hash almacenado.
// Devuelve false tanto para password incorrecto como para hash malformado:
// el caller no puede distinguir los dos casos.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
