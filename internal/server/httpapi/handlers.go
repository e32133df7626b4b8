package httpapi

import (
	"errors"
	"net/http"

	"github.com/dormdeals/dormdeals/internal/common"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *HTTPServer) listUniversities(c *gin.Context) {
	list, err := s.users.Universities(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "university list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email, and password are required"})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnknownEmailDomain):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please use your university email address"})
		case errors.Is(err, common.ErrorAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"message": "An account with this email already exists"})
		default:
			s.logger.Error(c.Request.Context(), "registration failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	pair, user, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// The same body covers a missing account and a wrong password.
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"user":         user,
	})
}

func (s *HTTPServer) refreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Refresh token required"})
		return
	}

	pair, err := s.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken):
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid refresh token"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusForbidden, gin.H{"message": "User not found"})
		default:
			s.logger.Error(c.Request.Context(), "token refresh failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken, "refreshToken": pair.RefreshToken})
}

func (s *HTTPServer) verifyToken(c *gin.Context) {
	claims := ClaimsFromContext(c)

	user, err := s.users.VerifySession(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		s.logger.Error(c.Request.Context(), "session verification failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "user": user})
}

func (s *HTTPServer) logout(c *gin.Context) {
	claims := ClaimsFromContext(c)
	s.users.Logout(c.Request.Context(), claims.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
