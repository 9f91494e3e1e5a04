package services

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/tournio/swiss-system/utils"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// authService аутентифицирует единственного оператора, заданного в
// конфигурации. Учётные записи участников — вне зоны ответственности ядра.
type authService struct {
	adminEmail        string
	adminPasswordHash string
	jwtSecret         []byte
}

func NewAuthService(adminEmail, adminPasswordHash string, jwtSecret []byte) AuthService {
	return &authService{
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
		jwtSecret:         jwtSecret,
	}
}

// Login проверяет учётные данные оператора и выдаёт HS256-токен.
func (s *authService) Login(_ context.Context, email, password string) (string, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	if !utils.CheckPasswordHash(password, s.adminPasswordHash) || !emailOK {
		return "", ErrAuthInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"email": s.adminEmail,
		"role":  "operator",
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
