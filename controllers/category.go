package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Bobomurod2004/UzSWLU/config"
	"github.com/Bobomurod2004/UzSWLU/models"
	"github.com/Bobomurod2004/UzSWLU/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int   `json:"parent_id"`
}

// GetCategories lists all live categories.
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Scopes(models.Alive).Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

// CreateCategory adds a category (SUPERADMIN only, enforced by the route).
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	category := models.Category{
		Name:       utils.SanitizeInput(req.Name),
		ParentID:   req.ParentID,
		SoftDelete: models.SoftDelete{IsActive: true},
	}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "category": category})
}

// UpdateCategory renames or reparents a category.
func UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	var category models.Category
	if err := config.DB.Scopes(models.Alive).First(&category, "category_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
		return
	}

	updates := map[string]interface{}{
		"name":       utils.SanitizeInput(req.Name),
		"parent_id":  req.ParentID,
		"updated_at": time.Now(),
	}
	if err := config.DB.Model(&category).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

// DeleteCategory tombstones a category that has no live documents.
func DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var inUse int64
	if err := config.DB.Model(&models.Document{}).Scopes(models.Alive).
		Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category usage"})
		return
	}
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has documents"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Category{}).
		Where("category_id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "is_active": false, "updated_at": now})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}
