package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resumatch/ats-engine/internal/models"
)

type JobRepository interface {
	Upsert(job *models.JobRequirement) error
	FindByID(id string) (*models.JobRequirement, error)
	FindAll() ([]models.JobRequirement, error)
	Delete(id string) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Upsert implements JobRepository. Writing under an existing ID replaces
// the stored requirement; callers own the cache invalidation that must
// follow.
func (r *jobRepository) Upsert(job *models.JobRequirement) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(job).Error
	if err != nil {
		return fmt.Errorf("failed to upsert job requirement: %w", err)
	}
	return nil
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(id string) (*models.JobRequirement, error) {
	var job models.JobRequirement
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found: %s", id)
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// FindAll implements JobRepository.
func (r *jobRepository) FindAll() ([]models.JobRequirement, error) {
	var jobs []models.JobRequirement
	if err := r.db.Order("created_at ASC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// Delete implements JobRepository.
func (r *jobRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.JobRequirement{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}
