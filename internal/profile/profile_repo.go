package profile

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:generate mockgen -source=profile_repo.go -destination=mock/profile_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Profile) error
	FindAll(ctx context.Context) ([]Profile, error)
	FindOptions(ctx context.Context) ([]Profile, error)
	FindByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id string) error
	CreateCorrection(ctx context.Context, c *Correction) error
	FindCorrectionByID(ctx context.Context, id string) (*Correction, error)
	ListCorrectionsByStatus(ctx context.Context, status string) ([]Correction, error)
	ApplyCorrectionChanges(ctx context.Context, profileID uuid.UUID, changes map[string]string) error
	SettleCorrection(ctx context.Context, c *Correction) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns the session every statement runs on. With a transaction
// attached it binds gorm to that *sql.Tx, so the caller's Commit/Rollback
// governs the writes; otherwise it is the shared pool.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	txDB, err := gorm.Open(postgres.New(postgres.Config{Conn: r.tx}), &gorm.Config{})
	if err != nil {
		db := r.db.WithContext(ctx)
		_ = db.AddError(err)
		return db
	}
	return txDB.WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, p *Profile) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	err := r.conn(ctx).
		Preload("CoreDetail").
		Preload("SupportDetail").
		Order("full_name ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	err := r.conn(ctx).
		Select("id", "full_name", "role").
		Where("active = ?", true).
		Order("full_name ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).
		Preload("CoreDetail").
		Preload("SupportDetail").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) Update(ctx context.Context, p *Profile) error {
	return r.conn(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Profile{}, "id = ?", id).Error
}

func (r *repository) CreateCorrection(ctx context.Context, c *Correction) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) FindCorrectionByID(ctx context.Context, id string) (*Correction, error) {
	var c Correction
	err := r.conn(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) ListCorrectionsByStatus(ctx context.Context, status string) ([]Correction, error) {
	var corrections []Correction
	db := r.conn(ctx).Model(&Correction{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("created_at DESC").Find(&corrections).Error
	return corrections, err
}

// ApplyCorrectionChanges writes the approved field values onto the profile
// in a single UPDATE. Keys must already be validated against the
// correctable-field whitelist.
func (r *repository) ApplyCorrectionChanges(ctx context.Context, profileID uuid.UUID, changes map[string]string) error {
	values := make(map[string]any, len(changes))
	for field, v := range changes {
		values[field] = v
	}
	return r.conn(ctx).
		Model(&Profile{}).
		Where("id = ?", profileID).
		Updates(values).Error
}

// SettleCorrection flips a correction out of pending into its reviewed
// state. The WHERE guard on the current status makes the flip
// first-wins: a zero row count means another reviewer settled it first.
func (r *repository) SettleCorrection(ctx context.Context, c *Correction) (int64, error) {
	res := r.conn(ctx).
		Model(&Correction{}).
		Where("id = ? AND status = ?", c.ID, CorrectionStatusPending).
		Updates(map[string]any{
			"status":         c.Status,
			"reviewed_by":    c.ReviewedBy,
			"reviewed_at":    c.ReviewedAt,
			"decline_reason": c.DeclineReason,
		})
	return res.RowsAffected, res.Error
}
