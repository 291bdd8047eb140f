package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"taskdash/internal/devserver/models"
	"taskdash/internal/devserver/sqlite"
)

// userKey is the gin context key holding the authenticated user.
const userKey = "user"

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondMessage(c, http.StatusBadRequest, "All fields are required")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.respondInternal(c, err)
		return
	}
	user, err := s.store.CreateUser(c.Request.Context(), req.Name, req.Email, hash)
	if errors.Is(err, sqlite.ErrDuplicateEmail) {
		respondMessage(c, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		s.respondInternal(c, err)
		return
	}
	s.respondSession(c, http.StatusCreated, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondMessage(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, sqlite.ErrNotFound) {
		s.respondInternal(c, err)
		return
	}
	if err != nil || !checkPasswordHash(req.Password, user.PasswordHash) {
		respondMessage(c, http.StatusBadRequest, "Invalid credentials")
		return
	}
	s.respondSession(c, http.StatusOK, user)
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) respondSession(c *gin.Context, status int, user models.User) {
	token, err := s.issueToken(user.ID)
	if err != nil {
		s.respondInternal(c, err)
		return
	}
	c.JSON(status, sessionResponse{Token: token, User: user})
}

// requireAuth checks the bearer token and stores the user in the context.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
		return
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header"})
		return
	}

	claims, err := s.parseToken(raw)
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Token expired"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
		return
	}

	user, err := s.store.UserByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, sqlite.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}
	if err != nil {
		s.respondInternal(c, err)
		c.Abort()
		return
	}
	c.Set(userKey, user)
	c.Next()
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet(userKey).(models.User)
}

func (s *Server) issueToken(userID string) (string, error) {
	now := s.now()
	claims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (*models.Claims, error) {
	claims := &models.Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// hashPassword generates a bcrypt hash of the plain-text password.
func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// checkPasswordHash compares a bcrypt password hash with a plain-text password.
func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
