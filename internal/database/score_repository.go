package database

import (
	"time"

	"github.com/trafficguard/trafficguard/internal/models"
)

// ScoreRepository provides database operations for traffic score records
type ScoreRepository struct {
	db *Database
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *Database) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Save persists a score record
func (r *ScoreRepository) Save(record *models.ScoreRecord) error {
	return r.db.Create(record).Error
}

// FindByIP retrieves all records for an IP address, newest first
func (r *ScoreRepository) FindByIP(ip string) ([]*models.ScoreRecord, error) {
	var records []*models.ScoreRecord
	err := r.db.Where("ip = ?", ip).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// FindByConclusion retrieves records with the given conclusion, newest first
func (r *ScoreRepository) FindByConclusion(conclusion models.Conclusion, limit int) ([]*models.ScoreRecord, error) {
	var records []*models.ScoreRecord
	err := r.db.Where("conclusion = ?", conclusion).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// FindByCreatedAtBetween retrieves records created inside the given window
func (r *ScoreRepository) FindByCreatedAtBetween(start, end time.Time) ([]*models.ScoreRecord, error) {
	var records []*models.ScoreRecord
	err := r.db.Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// FindByScoreRange retrieves records whose total score falls inside [min, max]
func (r *ScoreRepository) FindByScoreRange(min, max int) ([]*models.ScoreRecord, error) {
	var records []*models.ScoreRecord
	err := r.db.Where("total_score BETWEEN ? AND ?", min, max).
		Order("total_score DESC").
		Find(&records).Error
	return records, err
}

// FindRecent retrieves the most recent records
func (r *ScoreRepository) FindRecent(limit int) ([]*models.ScoreRecord, error) {
	var records []*models.ScoreRecord
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// CountByConclusion returns the record count per conclusion
func (r *ScoreRepository) CountByConclusion() (map[models.Conclusion]int64, error) {
	var rows []struct {
		Conclusion models.Conclusion
		Count      int64
	}

	err := r.db.Model(&models.ScoreRecord{}).
		Select("conclusion, COUNT(*) as count").
		Group("conclusion").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Conclusion]int64, len(rows))
	for _, row := range rows {
		counts[row.Conclusion] = row.Count
	}
	return counts, nil
}
