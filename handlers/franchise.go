package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/database"
	"github.com/wpendl99/jwt-pizza-service/middleware"
	"github.com/wpendl99/jwt-pizza-service/models"
	"github.com/wpendl99/jwt-pizza-service/rbac"
)

type FranchiseAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateFranchiseRequest struct {
	Name   string                  `json:"name" binding:"required"`
	Admins []FranchiseAdminRequest `json:"admins"`
}

type CreateStoreRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListFranchises returns every franchise. Admin callers see the full
// admin detail; everyone else, anonymous callers included, gets the
// redacted stores-only view.
func ListFranchises(c *gin.Context) {
	franchises, err := database.DB.GetFranchises(middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, franchises)
}

// GetUserFranchises lists the franchises a user administers. Only the
// user themselves or an admin sees anything; everyone else gets an empty
// list.
func GetUserFranchises(c *gin.Context) {
	identity := middleware.Identity(c)
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		respondError(c, apperr.Validation("invalid user id"))
		return
	}

	franchises := []models.Franchise{}
	if identity.UserID == uint(userID) || rbac.HasRole(identity, models.RoleAdmin) {
		franchises, err = database.DB.GetUserFranchises(uint(userID))
		if err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, franchises)
}

// CreateFranchise creates a franchise with its admin list (admin only).
func CreateFranchise(c *gin.Context) {
	if err := rbac.Authorize(middleware.Identity(c), rbac.ActionCreateFranchise, nil); err != nil {
		respondError(c, err)
		return
	}

	var req CreateFranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("franchise name is required"))
		return
	}

	franchise := models.Franchise{Name: req.Name}
	for _, admin := range req.Admins {
		franchise.Admins = append(franchise.Admins, models.User{Email: admin.Email})
	}

	created, err := database.DB.CreateFranchise(franchise)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// DeleteFranchise removes a franchise and its stores (admin only).
func DeleteFranchise(c *gin.Context) {
	if err := rbac.Authorize(middleware.Identity(c), rbac.ActionDeleteFranchise, nil); err != nil {
		respondError(c, err)
		return
	}

	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 32)
	if err != nil {
		respondError(c, apperr.Validation("invalid franchise id"))
		return
	}
	if err := database.DB.DeleteFranchise(uint(franchiseID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "franchise deleted"})
}

// CreateStore adds a store under a franchise. Allowed for admins and for
// users on that franchise's admin list.
func CreateStore(c *gin.Context) {
	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 32)
	if err != nil {
		respondError(c, apperr.Validation("invalid franchise id"))
		return
	}

	franchise, err := database.DB.GetFranchise(uint(franchiseID))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := rbac.Authorize(middleware.Identity(c), rbac.ActionManageStore, &rbac.Target{Franchise: &franchise}); err != nil {
		respondError(c, err)
		return
	}

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("store name is required"))
		return
	}

	store, err := database.DB.CreateStore(uint(franchiseID), models.Store{Name: req.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

// DeleteStore removes a store from a franchise, with the same authority
// rule as CreateStore. Orders placed against the store survive it.
func DeleteStore(c *gin.Context) {
	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 32)
	if err != nil {
		respondError(c, apperr.Validation("invalid franchise id"))
		return
	}
	storeID, err := strconv.ParseUint(c.Param("storeId"), 10, 32)
	if err != nil {
		respondError(c, apperr.Validation("invalid store id"))
		return
	}

	franchise, err := database.DB.GetFranchise(uint(franchiseID))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := rbac.Authorize(middleware.Identity(c), rbac.ActionManageStore, &rbac.Target{Franchise: &franchise}); err != nil {
		respondError(c, err)
		return
	}

	if err := database.DB.DeleteStore(uint(franchiseID), uint(storeID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "store deleted"})
}
