package handlers

import (
	"net/http"
	"strconv"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/pkg/storage"
	"makerhub/services/market/repository"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectRepo  repository.ProjectRepository
	purchaseRepo repository.PurchaseRepository
	store        storage.Storage
	logger       *logger.Logger
}

func NewProjectHandler(projectRepo repository.ProjectRepository, purchaseRepo repository.PurchaseRepository, store storage.Storage, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectRepo:  projectRepo,
		purchaseRepo: purchaseRepo,
		store:        store,
		logger:       logger,
	}
}

// CreateProject godoc
// @Summary      Upload a project
// @Description  Create a marketplace project with its file attached as multipart form data
// @Tags         projects
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Project title"
// @Param        description formData string false "Description"
// @Param        category formData string true "free, paid or premium"
// @Param        price formData int false "Price in coins, required for paid and premium"
// @Param        file formData file true "Project archive"
// @Success      201  {object}  models.Project
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID := c.GetString("user_id")

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	category := models.ProjectCategory(c.PostForm("category"))
	switch category {
	case models.CategoryFree, models.CategoryPaid, models.CategoryPremium:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category must be free, paid or premium"})
		return
	}

	price := 0
	if category != models.CategoryFree {
		p, err := strconv.Atoi(c.PostForm("price"))
		if err != nil || p <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be a positive number of coins"})
			return
		}
		price = p
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project file is required"})
		return
	}
	if fileHeader.Size > storage.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 50MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	obj, err := h.store.Save(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if err == storage.ErrFileTooLarge {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 50MB limit"})
			return
		}
		h.logger.Error("Failed to store project file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	project := &models.Project{
		OwnerID:     userID,
		Title:       title,
		Description: c.PostForm("description"),
		Category:    category,
		Price:       price,
		FileKey:     obj.Key,
		FileName:    fileHeader.Filename,
		FileHash:    obj.Hash,
		FileSize:    obj.Size,
	}

	if err := h.projectRepo.Create(project); err != nil {
		h.logger.Error("Failed to create project: %v", err)
		// Don't leave the stored file orphaned behind a failed row
		if delErr := h.store.Delete(c.Request.Context(), obj.Key); delErr != nil {
			h.logger.Error("Failed to clean up stored file %s: %v", obj.Key, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// ListProjects godoc
// @Summary      List projects
// @Description  Browse the marketplace, optionally filtered by category
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        category query string false "free, paid or premium"
// @Param        limit query int false "Number of projects"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	limit := 20
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	category := c.Query("category")
	if category != "" {
		switch models.ProjectCategory(category) {
		case models.CategoryFree, models.CategoryPaid, models.CategoryPremium:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
	}

	projects, err := h.projectRepo.List(category, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "count": len(projects)})
}

// GetProject godoc
// @Summary      Get project by ID
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200  {object}  models.Project
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// MyProjects godoc
// @Summary      List own projects
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /projects/mine [get]
func (h *ProjectHandler) MyProjects(c *gin.Context) {
	projects, err := h.projectRepo.GetByOwnerID(c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to list own projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "count": len(projects)})
}

// canAccess reports whether the caller may download the project. Free
// projects are open to everyone, owners always have access, everyone
// else needs a purchase row.
func (h *ProjectHandler) canAccess(project *models.Project, userID string) (bool, error) {
	if project.Category == models.CategoryFree {
		return true, nil
	}
	if userID == "" {
		return false, nil
	}
	if project.OwnerID == userID {
		return true, nil
	}
	return h.purchaseRepo.Exists(userID, project.ID)
}

// GetPurchaseStatus godoc
// @Summary      Get purchase status
// @Description  Report whether the caller may download the project. Works for anonymous callers too.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id}/purchase-status [get]
func (h *ProjectHandler) GetPurchaseStatus(c *gin.Context) {
	project, err := h.projectRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	allowed, err := h.canAccess(project, c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to check access: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchased": allowed, "category": project.Category, "price": project.Price})
}

// DownloadProject godoc
// @Summary      Download project file
// @Description  Stream the file for local storage, or return a time-limited signed URL for remote backends
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Success      200  {object}  map[string]string
// @Failure      402  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id}/download [get]
func (h *ProjectHandler) DownloadProject(c *gin.Context) {
	project, err := h.projectRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	allowed, err := h.canAccess(project, c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to check access: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Project must be purchased first"})
		return
	}

	url, err := h.store.URL(c.Request.Context(), project.FileKey)
	if err != nil {
		h.logger.Error("Failed to sign URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare download"})
		return
	}

	if err := h.projectRepo.IncrementDownloads(project.ID); err != nil {
		h.logger.Error("Failed to count download: %v", err)
	}

	if url != "" {
		c.JSON(http.StatusOK, gin.H{"url": url})
		return
	}

	// Local backend has no signed URLs, stream the bytes directly
	data, err := h.store.Read(c.Request.Context(), project.FileKey)
	if err != nil {
		if err == storage.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project file missing"})
			return
		}
		h.logger.Error("Failed to read file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+project.FileName+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// DeleteProject godoc
// @Summary      Delete project
// @Description  Remove a project and its stored file. Owners can delete their own projects, admins can delete any.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, err := h.projectRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	role := models.UserRole(c.GetString("user_role"))
	if project.OwnerID != c.GetString("user_id") && !role.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner or an admin can delete this project"})
		return
	}

	if err := h.projectRepo.Delete(project.ID); err != nil {
		h.logger.Error("Failed to delete project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), project.FileKey); err != nil && err != storage.ErrNotFound {
		h.logger.Error("Failed to delete stored file %s: %v", project.FileKey, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
