package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/database"
	"github.com/wpendl99/jwt-pizza-service/metrics"
	"github.com/wpendl99/jwt-pizza-service/middleware"
	"github.com/wpendl99/jwt-pizza-service/models"
	"github.com/wpendl99/jwt-pizza-service/rbac"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a diner account and logs it in.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, email, and password are required"})
		return
	}

	user, err := database.DB.AddUser(models.User{Name: req.Name, Email: req.Email}, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := startSession(&user)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.M.AuthSucceeded()
	metrics.M.UserLoggedIn()

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login authenticates the credentials and opens a fresh session.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, err := database.DB.GetUser(req.Email, req.Password)
	if err != nil {
		metrics.M.AuthFailed()
		respondError(c, err)
		return
	}

	token, err := startSession(&user)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.M.AuthSucceeded()
	metrics.M.UserLoggedIn()

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout revokes the presented token's session. The route itself requires
// that the token still resolves to an authenticated user.
func Logout(c *gin.Context) {
	if err := database.DB.LogoutUser(middleware.BearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	metrics.M.UserLoggedOut()
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// UpdateUser changes a user's email and/or password. Only the user
// themselves or an admin may do this.
func UpdateUser(c *gin.Context) {
	identity := middleware.Identity(c)
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		respondError(c, apperr.Validation("invalid user id"))
		return
	}

	if err := rbac.Authorize(identity, rbac.ActionUpdateUser, &rbac.Target{UserID: uint(userID)}); err != nil {
		respondError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	user, err := database.DB.UpdateUser(uint(userID), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// startSession issues a token and records its signature as active.
func startSession(user *models.User) (string, error) {
	token, err := middleware.GenerateToken(user)
	if err != nil {
		return "", apperr.Internal("failed to generate token", err)
	}
	if err := database.DB.LoginUser(user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}
