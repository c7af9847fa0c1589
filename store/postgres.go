package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"phishguard/models"
)

// PostgresStore is the relational backend. Status-guarded mutations are
// expressed as conditional UPDATEs so the guard and the write are one
// statement; under concurrent writers only one request's condition
// matches at commit time.
type PostgresStore struct {
	db *gorm.DB
}

// PoolConfig carries the connection pool limits.
type PoolConfig struct {
	MaxIdleConns int
	MaxOpenConns int
}

// NewPostgresStore connects, configures the pool and migrates the
// schema.
func NewPostgresStore(dsn string, pool PoolConfig) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Campaign{},
		&models.Recipient{},
		&models.CampaignEvent{},
		&models.EmailTemplate{},
		&models.LandingPage{},
	); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ---------------------------------------------------------------------
// Campaigns
// ---------------------------------------------------------------------

func (s *PostgresStore) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (s *PostgresStore) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *PostgresStore) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	if patch.Empty() {
		return s.GetCampaign(ctx, id)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.TargetCount != nil {
		updates["target_count"] = *patch.TargetCount
	}

	res := s.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, models.CampaignStatusDraft).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetCampaign(ctx, id)
}

func (s *PostgresStore) TransitionCampaign(ctx context.Context, id string, from []string, to string) (*models.Campaign, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetCampaign(ctx, id)
}

func (s *PostgresStore) DeleteCampaign(ctx context.Context, id string) (bool, error) {
	existed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&models.CampaignEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&models.Recipient{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Campaign{})
		if res.Error != nil {
			return res.Error
		}
		existed = res.RowsAffected > 0
		return nil
	})
	return existed, err
}

// ---------------------------------------------------------------------
// Recipients
// ---------------------------------------------------------------------

func (s *PostgresStore) ListRecipientsByCampaign(ctx context.Context, campaignID string) ([]models.Recipient, error) {
	var recipients []models.Recipient
	err := s.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Find(&recipients).Error
	if err != nil {
		return nil, err
	}
	return recipients, nil
}

func (s *PostgresStore) GetRecipientByToken(ctx context.Context, token string) (*models.Recipient, error) {
	var r models.Recipient
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) CreateRecipient(ctx context.Context, r *models.Recipient) error {
	return s.db.WithContext(ctx).Create(r).Error
}

// CreateRecipients inserts the whole batch inside one transaction:
// either every row becomes visible or none does.
func (s *PostgresStore) CreateRecipients(ctx context.Context, recipients []*models.Recipient) (int, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range recipients {
			if err := tx.Create(r).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(recipients), nil
}

func (s *PostgresStore) UpdateRecipientStatus(ctx context.Context, token, status string) (*models.Recipient, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case models.RecipientStatusSent:
		updates["sent_at"] = now
	case models.RecipientStatusClicked:
		updates["clicked_at"] = now
	case models.RecipientStatusSubmitted:
		updates["submitted_at"] = now
	}

	res := s.db.WithContext(ctx).
		Model(&models.Recipient{}).
		Where("token = ?", token).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetRecipientByToken(ctx, token)
}

func (s *PostgresStore) DeleteRecipient(ctx context.Context, id string) (bool, error) {
	// Events referencing this recipient's token are left untouched.
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Recipient{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ---------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------

func (s *PostgresStore) ListEventsByCampaign(ctx context.Context, campaignID string) ([]models.CampaignEvent, error) {
	var events []models.CampaignEvent
	err := s.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *PostgresStore) CreateEvent(ctx context.Context, e *models.CampaignEvent) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *PostgresStore) CountDistinctTokens(ctx context.Context, campaignID, eventType string) (int, error) {
	var count int64
	q := s.db.WithContext(ctx).
		Model(&models.CampaignEvent{}).
		Where("type = ?", eventType).
		Distinct("recipient_token")
	if campaignID != "" {
		q = q.Where("campaign_id = ?", campaignID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ---------------------------------------------------------------------
// Email templates
// ---------------------------------------------------------------------

func (s *PostgresStore) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	var templates []models.EmailTemplate
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *PostgresStore) GetTemplate(ctx context.Context, id string) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) CreateTemplate(ctx context.Context, t *models.EmailTemplate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.IsDefault {
			if err := clearDefaultFlag(tx, &models.EmailTemplate{}); err != nil {
				return err
			}
		}
		return tx.Create(t).Error
	})
}

func (s *PostgresStore) UpdateTemplate(ctx context.Context, id string, patch models.TemplatePatch) (*models.EmailTemplate, error) {
	if patch.Empty() {
		return s.GetTemplate(ctx, id)
	}

	updated := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.IsDefault != nil && *patch.IsDefault {
			if err := clearDefaultFlag(tx, &models.EmailTemplate{}); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.Subject != nil {
			updates["subject"] = *patch.Subject
		}
		if patch.Body != nil {
			updates["body"] = *patch.Body
		}
		if patch.IsDefault != nil {
			updates["is_default"] = *patch.IsDefault
		}

		res := tx.Model(&models.EmailTemplate{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, nil
	}
	return s.GetTemplate(ctx, id)
}

func (s *PostgresStore) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.EmailTemplate{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ---------------------------------------------------------------------
// Landing pages
// ---------------------------------------------------------------------

func (s *PostgresStore) ListLandingPages(ctx context.Context) ([]models.LandingPage, error) {
	var pages []models.LandingPage
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *PostgresStore) GetLandingPage(ctx context.Context, id string) (*models.LandingPage, error) {
	var p models.LandingPage
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) CreateLandingPage(ctx context.Context, p *models.LandingPage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.IsDefault {
			if err := clearDefaultFlag(tx, &models.LandingPage{}); err != nil {
				return err
			}
		}
		return tx.Create(p).Error
	})
}

func (s *PostgresStore) UpdateLandingPage(ctx context.Context, id string, patch models.LandingPagePatch) (*models.LandingPage, error) {
	if patch.Empty() {
		return s.GetLandingPage(ctx, id)
	}

	updated := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.IsDefault != nil && *patch.IsDefault {
			if err := clearDefaultFlag(tx, &models.LandingPage{}); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.HTML != nil {
			updates["html"] = *patch.HTML
		}
		if patch.IsDefault != nil {
			updates["is_default"] = *patch.IsDefault
		}

		res := tx.Model(&models.LandingPage{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, nil
	}
	return s.GetLandingPage(ctx, id)
}

func (s *PostgresStore) DeleteLandingPage(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LandingPage{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// clearDefaultFlag drops the default marker from every row of the given
// model. Runs inside the caller's transaction so "clear all, set one"
// commits atomically; concurrent default-setters resolve to
// last-committed-wins.
func clearDefaultFlag(tx *gorm.DB, model interface{}) error {
	return tx.Model(model).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

// ---------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------

func (s *PostgresStore) DashboardCounts(ctx context.Context) (DashboardCounts, error) {
	var counts DashboardCounts

	type statusCount struct {
		Status string
		Count  int
	}
	var byStatus []statusCount
	err := s.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return counts, err
	}
	for _, sc := range byStatus {
		counts.TotalCampaigns += sc.Count
		switch sc.Status {
		case models.CampaignStatusActive:
			counts.ActiveCampaigns = sc.Count
		case models.CampaignStatusCompleted:
			counts.CompletedCampaigns = sc.Count
		case models.CampaignStatusDraft:
			counts.DraftCampaigns = sc.Count
		case models.CampaignStatusPaused:
			counts.PausedCampaigns = sc.Count
		}
	}

	var totalRecipients int64
	if err := s.db.WithContext(ctx).Model(&models.Recipient{}).Count(&totalRecipients).Error; err != nil {
		return counts, err
	}
	counts.TotalRecipients = int(totalRecipients)

	var sentRecipients int64
	err = s.db.WithContext(ctx).
		Model(&models.Recipient{}).
		Where("status <> ?", models.RecipientStatusPending).
		Count(&sentRecipients).Error
	if err != nil {
		return counts, err
	}
	counts.SentRecipients = int(sentRecipients)

	if counts.DistinctClicked, err = s.CountDistinctTokens(ctx, "", models.EventTypeClicked); err != nil {
		return counts, err
	}
	if counts.DistinctSubmitted, err = s.CountDistinctTokens(ctx, "", models.EventTypeSubmitted); err != nil {
		return counts, err
	}

	return counts, nil
}

var _ Store = (*PostgresStore)(nil)
