package service

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashPassword хэширует пароль с помощью bcrypt (cost из конфигурации).
func (s *Service) hashPassword(password string) (string, error) {
	const op = "service.hasher.hashPassword"

	cost := s.cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем за константное время.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// hashToken хэширует refresh-токен для хранения.
//
// bcrypt отвергает вход длиннее 72 байт, а refresh-JWT и длиннее, и
// начинается у всех токенов с одинакового заголовка, поэтому перед bcrypt
// токен сворачивается в sha256. Получается та же модель, что и для пароля:
// посоленный односторонний хэш, проверяемый линейным перебором записей.
func (s *Service) hashToken(token string) (string, error) {
	const op = "service.hasher.hashToken"

	cost := s.cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword(tokenDigest(token), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkToken сверяет «сырой» refresh-токен с хранимым хэшем.
func checkToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), tokenDigest(token)) == nil
}

// tokenDigest сворачивает токен в компактное представление для bcrypt.
func tokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(base64.RawURLEncoding.EncodeToString(sum[:]))
}
