package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resumatch/ats-engine/internal/models"
)

type CandidateRepository interface {
	Upsert(profile *models.CandidateProfile) error
	FindByID(jobID, candidateID string) (*models.CandidateProfile, error)
	FindByJob(jobID string) ([]models.CandidateProfile, error)
	DeleteByJob(jobID string) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// Upsert implements CandidateRepository. Re-ingestion under the same
// (job, candidate) key replaces the stored profile.
func (r *candidateRepository) Upsert(profile *models.CandidateProfile) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "candidate_id"}},
		UpdateAll: true,
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert candidate profile: %w", err)
	}
	return nil
}

// FindByID implements CandidateRepository.
func (r *candidateRepository) FindByID(jobID, candidateID string) (*models.CandidateProfile, error) {
	var profile models.CandidateProfile
	err := r.db.Where("job_id = ? AND candidate_id = ?", jobID, candidateID).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate not found: %s", candidateID)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &profile, nil
}

// FindByJob implements CandidateRepository.
func (r *candidateRepository) FindByJob(jobID string) ([]models.CandidateProfile, error) {
	var profiles []models.CandidateProfile
	err := r.db.Where("job_id = ?", jobID).Order("created_at ASC").Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return profiles, nil
}

// DeleteByJob implements CandidateRepository.
func (r *candidateRepository) DeleteByJob(jobID string) error {
	if err := r.db.Where("job_id = ?", jobID).Delete(&models.CandidateProfile{}).Error; err != nil {
		return fmt.Errorf("failed to delete candidates: %w", err)
	}
	return nil
}
