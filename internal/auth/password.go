package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest at cost 10. The salt is
// generated per call, so two hashes of the same password differ.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
