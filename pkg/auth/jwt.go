package auth

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Роли пользователей платформы
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// Ошибки проверки токена
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenSignature = errors.New("signature is invalid")
	ErrTokenInvalid   = errors.New("token validation failed")
)

// Claims содержит пользовательские поля токена
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Principal - аутентифицированный пользователь запроса
type Principal struct {
	UserID   uint
	Username string
	Role     string
}

// IsAdmin сообщает, есть ли у пользователя права администратора
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// TokenVerifier проверяет HMAC-подписанные токены, выданные сервисом аккаунтов
type TokenVerifier struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenVerifier создает проверяющий токены. Пустой issuer отключает проверку издателя.
func NewTokenVerifier(secret, issuer string, ttl time.Duration) (*TokenVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenVerifier{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// GenerateToken выпускает токен. Используется командой issue-token и тестами.
func (v *TokenVerifier) GenerateToken(userID uint, username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(v.secret)
	if err != nil {
		log.Printf("[JWT] Ошибка генерации токена для пользователя ID=%d: %v", userID, err)
		return "", err
	}
	return tokenString, nil
}

// Verify проверяет подпись, срок действия и издателя токена
func (v *TokenVerifier) Verify(tokenString string) (*Principal, error) {
	claims := &Claims{}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.Printf("[JWT] Неожиданный метод подписи: %v", token.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc)
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				log.Printf("[JWT] Токен истек для пользователя ID=%d", claims.UserID)
				return nil, ErrTokenExpired
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				log.Printf("[JWT] Неверная подпись токена для пользователя ID=%d", claims.UserID)
				return nil, ErrTokenSignature
			}
		}
		log.Printf("[JWT] Ошибка при разборе токена: %v", err)
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		log.Printf("[JWT] Неожиданный издатель токена: %q", claims.Issuer)
		return nil, ErrTokenInvalid
	}
	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	if claims.Role != RoleStudent && claims.Role != RoleAdmin {
		log.Printf("[JWT] Неизвестная роль %q для пользователя ID=%d", claims.Role, claims.UserID)
		return nil, ErrTokenInvalid
	}

	return &Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
