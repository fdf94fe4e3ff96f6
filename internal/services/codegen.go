package services

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	accessCodePrefix = "TB"
	accessCodeLen    = 6

	authCodePrefix = "AUTH"
	authCodeLen    = 4
)

// GenerateAccessCode returns a fresh login credential of the form
// "TB" + 6 alphanumeric characters. Uniqueness is the caller's problem.
func GenerateAccessCode() (string, error) {
	return generateCode(accessCodePrefix, accessCodeLen)
}

// GenerateAuthorizationCode returns a registration gate code of the form
// "AUTH" + 4 alphanumeric characters.
func GenerateAuthorizationCode() (string, error) {
	return generateCode(authCodePrefix, authCodeLen)
}

func generateCode(prefix string, length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	result := []byte(prefix)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result = append(result, codeAlphabet[n.Int64()])
	}
	return string(result), nil
}
