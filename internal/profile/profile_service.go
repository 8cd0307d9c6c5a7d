package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dataguard-hris/internal/audit"
	"dataguard-hris/internal/domain"
	profileerrors "dataguard-hris/internal/profile/errors"
	"dataguard-hris/internal/shared/contextutil"
	"dataguard-hris/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const StaffOptionsKey = "staff:options"

// correctableFields is the set of profile fields staff may change through a
// correction request. Everything else goes through hr_admin updates.
var correctableFields = map[string]struct{}{
	"full_name":           {},
	"phone":               {},
	"residential_address": {},
	"emergency_contact":   {},
}

//go:generate mockgen -source=profile_service.go -destination=mock/profile_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateStaffRequest) (StaffResponse, error)
	GetAll(ctx context.Context) ([]StaffResponse, error)
	GetOptions(ctx context.Context) ([]StaffOptionResponse, error)
	GetByID(ctx context.Context, id string) (StaffResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateStaffRequest) (StaffResponse, error)
	Delete(ctx context.Context, actorID, id string) error

	GetRole(ctx context.Context, userID string) (domain.Role, error)
	GetManagerID(ctx context.Context, userID string) (*string, error)

	SubmitCorrection(ctx context.Context, actorID string, req SubmitCorrectionRequest) (CorrectionResponse, error)
	ListCorrections(ctx context.Context, status string) ([]CorrectionResponse, error)
	ApproveCorrection(ctx context.Context, actorID, id string) (CorrectionResponse, error)
	RejectCorrection(ctx context.Context, actorID, id, declineReason string) (CorrectionResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sink    audit.Sink
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	rdb *redis.Client,
	sink audit.Sink,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("profile.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.service")
	}
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		rdb:     rdb,
		sink:    sink,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateStaffRequest) (StaffResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create staff requested",
		zap.String("request_id", rid),
		zap.String("user_id", req.UserID),
		zap.String("staff_category", req.StaffCategory),
	)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return StaffResponse{}, profileerrors.ErrInvalidUserID
	}
	if err := validateCategoryDetail(req.StaffCategory, req.CoreDetail, req.SupportDetail); err != nil {
		return StaffResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create staff begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	managerID, err := s.resolveManagerID(ctx, qtx, req.ManagerID, req.UserID)
	if err != nil {
		return StaffResponse{}, err
	}

	p := &Profile{
		ID:                 userID,
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		ResidentialAddress: req.ResidentialAddress,
		EmergencyContact:   req.EmergencyContact,
		StaffCategory:      req.StaffCategory,
		Role:               domain.ParseRole(req.Role).String(),
		ManagerID:          managerID,
		Active:             true,
	}

	if req.StaffCategory == CategoryCore {
		detail, err := s.buildCoreDetail(ctx, userID, req.CoreDetail)
		if err != nil {
			return StaffResponse{}, err
		}
		p.CoreDetail = detail
	} else {
		detail, err := buildSupportDetail(userID, req.SupportDetail)
		if err != nil {
			return StaffResponse{}, err
		}
		p.SupportDetail = detail
	}

	if err := qtx.Create(ctx, p); err != nil {
		s.logger.Error("create staff persist failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create staff commit failed", zap.String("request_id", rid), zap.Error(err))
		return StaffResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.sink.Write(ctx, audit.Record{
		Action:       "create_staff",
		ResourceType: "profile",
		ResourceID:   p.ID.String(),
		ActorID:      actorID,
		Details:      map[string]any{"staff_category": p.StaffCategory, "role": p.Role},
	})

	s.logger.Info("create staff success",
		zap.String("request_id", rid),
		zap.String("profile_id", p.ID.String()),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context) ([]StaffResponse, error) {
	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all staff failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(profiles), nil
}

func (s *service) GetOptions(ctx context.Context) ([]StaffOptionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, StaffOptionsKey).Result(); err == nil {
			var resp []StaffOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(StaffOptionsKey, func() (interface{}, error) {
		profiles, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]StaffOptionResponse, len(profiles))
		for i, p := range profiles {
			resp[i] = StaffOptionResponse{
				ID:       p.ID.String(),
				FullName: p.FullName,
				Role:     p.Role,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, StaffOptionsKey, jsonData, 1*time.Hour)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]StaffOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (StaffResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StaffResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateStaffRequest) (StaffResponse, error) {
	s.logger.Debug("update staff requested",
		zap.String("profile_id", id),
		zap.String("actor_id", actorID),
	)

	if err := validateCategoryDetail(req.StaffCategory, req.CoreDetail, req.SupportDetail); err != nil {
		return StaffResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update staff begin tx failed", zap.Error(err))
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		return StaffResponse{}, mapRepositoryError(err)
	}

	managerID, err := s.resolveManagerID(ctx, qtx, req.ManagerID, id)
	if err != nil {
		return StaffResponse{}, err
	}

	p.FullName = req.FullName
	p.Email = req.Email
	p.Phone = req.Phone
	p.ResidentialAddress = req.ResidentialAddress
	p.EmergencyContact = req.EmergencyContact
	p.StaffCategory = req.StaffCategory
	p.Role = domain.ParseRole(req.Role).String()
	p.ManagerID = managerID
	if req.Active != nil {
		p.Active = *req.Active
	}

	if req.StaffCategory == CategoryCore {
		detail, err := s.buildCoreDetail(ctx, p.ID, req.CoreDetail)
		if err != nil {
			return StaffResponse{}, err
		}
		if p.CoreDetail != nil && detail.StaffNumber == "" {
			detail.StaffNumber = p.CoreDetail.StaffNumber
		}
		p.CoreDetail = detail
		p.SupportDetail = nil
	} else {
		detail, err := buildSupportDetail(p.ID, req.SupportDetail)
		if err != nil {
			return StaffResponse{}, err
		}
		p.SupportDetail = detail
		p.CoreDetail = nil
	}

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update staff persist failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update staff commit failed", zap.Error(err))
		return StaffResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.sink.Write(ctx, audit.Record{
		Action:       "update_staff",
		ResourceType: "profile",
		ResourceID:   id,
		ActorID:      actorID,
	})

	s.logger.Info("update staff success", zap.String("profile_id", id))
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete staff failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx)
	s.sink.Write(ctx, audit.Record{
		Action:       "delete_staff",
		ResourceType: "profile",
		ResourceID:   id,
		ActorID:      actorID,
	})

	s.logger.Info("delete staff success", zap.String("profile_id", id))
	return nil
}

// GetRole resolves a user's role for authorization checks. A missing profile
// is not an error: such users act as plain core staff.
func (s *service) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	p, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RoleCoreStaff, nil
		}
		return "", err
	}
	return domain.ParseRole(p.Role), nil
}

// GetManagerID returns nil when the user has no manager assigned or no
// profile at all, which routes their leave requests straight to HR review.
func (s *service) GetManagerID(ctx context.Context, userID string) (*string, error) {
	p, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if p.ManagerID == nil {
		return nil, nil
	}
	v := p.ManagerID.String()
	return &v, nil
}

func (s *service) SubmitCorrection(ctx context.Context, actorID string, req SubmitCorrectionRequest) (CorrectionResponse, error) {
	profileID, err := uuid.Parse(actorID)
	if err != nil {
		return CorrectionResponse{}, profileerrors.ErrInvalidUserID
	}
	if len(req.Changes) == 0 {
		return CorrectionResponse{}, profileerrors.ErrCorrectionEmpty
	}
	for field := range req.Changes {
		if _, ok := correctableFields[field]; !ok {
			s.logger.Warn("correction field not allowed",
				zap.String("profile_id", actorID),
				zap.String("field", field),
			)
			return CorrectionResponse{}, profileerrors.ErrCorrectionFieldNotAllowed
		}
	}

	if _, err := s.repo.FindByID(ctx, actorID); err != nil {
		return CorrectionResponse{}, mapRepositoryError(err)
	}

	changes, err := json.Marshal(req.Changes)
	if err != nil {
		return CorrectionResponse{}, err
	}

	c := &Correction{
		ID:        uuid.New(),
		ProfileID: profileID,
		Changes:   changes,
		Reason:    req.Reason,
		Status:    CorrectionStatusPending,
	}
	if err := s.repo.CreateCorrection(ctx, c); err != nil {
		s.logger.Error("submit correction persist failed", zap.Error(err))
		return CorrectionResponse{}, mapRepositoryError(err)
	}

	s.sink.Write(ctx, audit.Record{
		Action:       "submit_correction",
		ResourceType: "profile_correction",
		ResourceID:   c.ID.String(),
		ActorID:      actorID,
	})

	s.logger.Info("correction submitted",
		zap.String("correction_id", c.ID.String()),
		zap.String("profile_id", actorID),
	)
	return mapCorrectionToResponse(*c), nil
}

func (s *service) ListCorrections(ctx context.Context, status string) ([]CorrectionResponse, error) {
	corrections, err := s.repo.ListCorrectionsByStatus(ctx, status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	resp := make([]CorrectionResponse, len(corrections))
	for i, c := range corrections {
		resp[i] = mapCorrectionToResponse(c)
	}
	return resp, nil
}

func (s *service) ApproveCorrection(ctx context.Context, actorID, id string) (CorrectionResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CorrectionResponse{}, profileerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve correction begin tx failed", zap.Error(err))
		return CorrectionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindCorrectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CorrectionResponse{}, profileerrors.ErrCorrectionNotFound
		}
		return CorrectionResponse{}, err
	}
	if c.Status != CorrectionStatusPending {
		return CorrectionResponse{}, profileerrors.ErrCorrectionNotPending
	}

	var changes map[string]string
	if err := json.Unmarshal(c.Changes, &changes); err != nil {
		return CorrectionResponse{}, err
	}

	if _, err := qtx.FindByID(ctx, c.ProfileID.String()); err != nil {
		return CorrectionResponse{}, mapRepositoryError(err)
	}
	if err := qtx.ApplyCorrectionChanges(ctx, c.ProfileID, changes); err != nil {
		return CorrectionResponse{}, mapRepositoryError(err)
	}

	now := time.Now().UTC()
	c.Status = CorrectionStatusApproved
	c.ReviewedBy = &actorUUID
	c.ReviewedAt = &now
	rows, err := qtx.SettleCorrection(ctx, c)
	if err != nil {
		return CorrectionResponse{}, mapRepositoryError(err)
	}
	if rows == 0 {
		// Another reviewer settled it between our read and this write.
		// The deferred rollback discards the profile update.
		return CorrectionResponse{}, profileerrors.ErrCorrectionNotPending
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve correction commit failed", zap.Error(err))
		return CorrectionResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.sink.Write(ctx, audit.Record{
		Action:       "approve_correction",
		ResourceType: "profile_correction",
		ResourceID:   id,
		ActorID:      actorID,
		Details:      map[string]any{"profile_id": c.ProfileID.String()},
	})

	s.logger.Info("correction approved",
		zap.String("correction_id", id),
		zap.String("reviewed_by", actorID),
	)
	return mapCorrectionToResponse(*c), nil
}

func (s *service) RejectCorrection(ctx context.Context, actorID, id, declineReason string) (CorrectionResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CorrectionResponse{}, profileerrors.ErrInvalidUserID
	}
	if declineReason == "" {
		return CorrectionResponse{}, profileerrors.ErrDeclineReasonRequired
	}

	c, err := s.repo.FindCorrectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CorrectionResponse{}, profileerrors.ErrCorrectionNotFound
		}
		return CorrectionResponse{}, err
	}
	if c.Status != CorrectionStatusPending {
		return CorrectionResponse{}, profileerrors.ErrCorrectionNotPending
	}

	now := time.Now().UTC()
	c.Status = CorrectionStatusDeclined
	c.ReviewedBy = &actorUUID
	c.ReviewedAt = &now
	c.DeclineReason = &declineReason
	rows, err := s.repo.SettleCorrection(ctx, c)
	if err != nil {
		return CorrectionResponse{}, mapRepositoryError(err)
	}
	if rows == 0 {
		return CorrectionResponse{}, profileerrors.ErrCorrectionNotPending
	}

	s.sink.Write(ctx, audit.Record{
		Action:       "reject_correction",
		ResourceType: "profile_correction",
		ResourceID:   id,
		ActorID:      actorID,
		Details:      map[string]any{"profile_id": c.ProfileID.String()},
	})

	s.logger.Info("correction rejected",
		zap.String("correction_id", id),
		zap.String("reviewed_by", actorID),
	)
	return mapCorrectionToResponse(*c), nil
}

func (s *service) resolveManagerID(ctx context.Context, qtx Repository, managerID *string, selfID string) (*uuid.UUID, error) {
	if managerID == nil || *managerID == "" {
		return nil, nil
	}
	if *managerID == selfID {
		return nil, profileerrors.ErrInvalidManagerID
	}
	id, err := uuid.Parse(*managerID)
	if err != nil {
		return nil, profileerrors.ErrInvalidManagerID
	}
	if _, err := qtx.FindByID(ctx, *managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profileerrors.ErrManagerNotFound
		}
		return nil, err
	}
	return &id, nil
}

func (s *service) buildCoreDetail(ctx context.Context, profileID uuid.UUID, payload *CoreDetailPayload) (*CoreStaffDetail, error) {
	detail := &CoreStaffDetail{ProfileID: profileID}
	if payload != nil {
		detail.JobTitle = payload.JobTitle
		detail.Department = payload.Department
		detail.Unit = payload.Unit
		detail.StaffNumber = payload.StaffNumber
		if payload.EmploymentDate != "" {
			d, err := time.Parse("2006-01-02", payload.EmploymentDate)
			if err != nil {
				return nil, profileerrors.ErrInvalidDateFormat
			}
			detail.EmploymentDate = d
		}
	}
	if detail.StaffNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "staff_number")
		if err != nil {
			s.logger.Error("generate staff number failed", zap.Error(err))
			return nil, err
		}
		detail.StaffNumber = fmt.Sprintf("DG-%06d", nextVal)
	}
	return detail, nil
}

func buildSupportDetail(profileID uuid.UUID, payload *SupportDetailPayload) (*SupportStaffDetail, error) {
	detail := &SupportStaffDetail{ProfileID: profileID}
	if payload != nil {
		detail.ProjectAssignment = payload.ProjectAssignment
		detail.ProjectLocation = payload.ProjectLocation
		detail.SupervisorName = payload.SupervisorName
		if payload.DeploymentStart != "" {
			d, err := time.Parse("2006-01-02", payload.DeploymentStart)
			if err != nil {
				return nil, profileerrors.ErrInvalidDateFormat
			}
			detail.DeploymentStart = d
		}
	}
	return detail, nil
}

func validateCategoryDetail(category string, core *CoreDetailPayload, support *SupportDetailPayload) error {
	if category == CategoryCore && support != nil {
		return profileerrors.ErrCategoryDetailMismatch
	}
	if category == CategorySupport && core != nil {
		return profileerrors.ErrCategoryDetailMismatch
	}
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, StaffOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate staff options cache",
			zap.Error(err),
			zap.String("key", StaffOptionsKey),
		)
	}
}

func mapToResponse(p Profile) StaffResponse {
	resp := StaffResponse{
		ID:                 p.ID.String(),
		FullName:           p.FullName,
		Email:              p.Email,
		Phone:              p.Phone,
		ResidentialAddress: p.ResidentialAddress,
		EmergencyContact:   p.EmergencyContact,
		StaffCategory:      p.StaffCategory,
		Role:               p.Role,
		Active:             p.Active,
	}
	if p.ManagerID != nil {
		v := p.ManagerID.String()
		resp.ManagerID = &v
	}
	if p.CoreDetail != nil {
		resp.CoreDetail = &CoreDetailResponse{
			JobTitle:       p.CoreDetail.JobTitle,
			Department:     p.CoreDetail.Department,
			Unit:           p.CoreDetail.Unit,
			StaffNumber:    p.CoreDetail.StaffNumber,
			EmploymentDate: p.CoreDetail.EmploymentDate.Format("2006-01-02"),
		}
	}
	if p.SupportDetail != nil {
		resp.SupportDetail = &SupportDetailResponse{
			ProjectAssignment: p.SupportDetail.ProjectAssignment,
			ProjectLocation:   p.SupportDetail.ProjectLocation,
			SupervisorName:    p.SupportDetail.SupervisorName,
			DeploymentStart:   p.SupportDetail.DeploymentStart.Format("2006-01-02"),
		}
	}
	return resp
}

func mapToListResponse(profiles []Profile) []StaffResponse {
	resp := make([]StaffResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = mapToResponse(p)
	}
	return resp
}

func mapCorrectionToResponse(c Correction) CorrectionResponse {
	resp := CorrectionResponse{
		ID:            c.ID.String(),
		ProfileID:     c.ProfileID.String(),
		Reason:        c.Reason,
		Status:        c.Status,
		DeclineReason: c.DeclineReason,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
	var changes map[string]string
	if json.Unmarshal(c.Changes, &changes) == nil {
		resp.Changes = changes
	}
	if c.ReviewedBy != nil {
		v := c.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if c.ReviewedAt != nil {
		v := c.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
