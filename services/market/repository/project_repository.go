package repository

import (
	"makerhub/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id string) (*models.Project, error)
	List(category string, limit, offset int) ([]*models.Project, error)
	GetByOwnerID(ownerID string) ([]*models.Project, error)
	Delete(id string) error
	IncrementDownloads(id string) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *projectRepository) GetByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(category string, limit, offset int) ([]*models.Project, error) {
	var projects []*models.Project
	query := r.db.Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) GetByOwnerID(ownerID string) ([]*models.Project, error) {
	var projects []*models.Project
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) Delete(id string) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}

func (r *projectRepository) IncrementDownloads(id string) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).
		UpdateColumn("downloads", clause.Expr{SQL: "downloads + ?", Vars: []interface{}{1}}).Error
}
