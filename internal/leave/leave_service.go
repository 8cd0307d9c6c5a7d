package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"dataguard-hris/internal/audit"
	"dataguard-hris/internal/balance"
	"dataguard-hris/internal/domain"
	leaveerrors "dataguard-hris/internal/leave/errors"
	"dataguard-hris/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// typeBuckets maps paid leave types to their ledger bucket. Types without an
// entry (Maternity, Paternity, Unpaid) never touch the balance.
var typeBuckets = map[string]string{
	TypeAnnual: balance.BucketAnnual,
	TypeSick:   balance.BucketSick,
	TypeCasual: balance.BucketCasual,
}

var validTypes = map[string]struct{}{
	TypeAnnual:    {},
	TypeSick:      {},
	TypeCasual:    {},
	TypeMaternity: {},
	TypePaternity: {},
	TypeUnpaid:    {},
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	ManagerApprove(ctx context.Context, actorID, id string) (LeaveResponse, error)
	ManagerReject(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id string) (LeaveResponse, error)
	GetMine(ctx context.Context, actorID string) ([]LeaveResponse, error)
	GetTeam(ctx context.Context, actorID string) ([]LeaveResponse, error)
	GetPending(ctx context.Context) ([]LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory Directory
	balances  balance.Service
	sink      audit.Sink
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory Directory,
	balances balance.Service,
	sink audit.Sink,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directory,
		balances:  balances,
		sink:      sink,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	requesterID, startDate, endDate, err := validateSubmit(actorID, req)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// No manager on file routes the request straight to HR review.
	managerID, err := s.directory.GetManagerID(ctx, actorID)
	if err != nil {
		s.logger.Error("submit leave manager lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	status := StatusPending
	if managerID != nil {
		status = StatusPendingManager
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l := &LeaveRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		LeaveType:   req.LeaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      status,
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.sink.Write(ctx, audit.Record{
		Action:       "submit_leave",
		ResourceType: "leave_request",
		ResourceID:   l.ID.String(),
		ActorID:      actorID,
		Details: map[string]any{
			"leave_type":     l.LeaveType,
			"initial_status": l.Status,
			"total_days":     l.DaySpan(),
		},
	})

	s.logger.Info("submit leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("status", l.Status),
	)
	return mapToResponse(*l), nil
}

func (s *service) ManagerApprove(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.managerDecide(ctx, actorID, id, true)
}

func (s *service) ManagerReject(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.managerDecide(ctx, actorID, id, false)
}

// managerDecide handles the first approval stage. The conditional update
// guards concurrent decisions: whichever commits first wins, the loser sees
// zero affected rows and reports an invalid transition.
func (s *service) managerDecide(ctx context.Context, actorID, id string, approve bool) (LeaveResponse, error) {
	s.logger.Debug("manager decision requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.Bool("approve", approve),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	managerID, err := s.directory.GetManagerID(ctx, l.RequesterID.String())
	if err != nil {
		s.logger.Error("manager decision manager lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if managerID == nil || *managerID != actorID {
		s.logger.Warn("manager decision by non-manager",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
		)
		return LeaveResponse{}, leaveerrors.ErrNotRequestersManager
	}

	now := time.Now().UTC()
	toStatus := StatusPending
	fields := TransitionFields{ManagerApprovalTime: &now}
	action := "approve_manager"
	if !approve {
		toStatus = StatusDeclined
		fields = TransitionFields{DecisionTime: &now, DecidedBy: &actorID}
		action = "reject_manager"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("manager decision begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.TransitionStatus(ctx, id, StatusPendingManager, toStatus, fields)
	if err != nil {
		s.logger.Error("manager decision persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if rows == 0 {
		s.logger.Warn("manager decision lost transition guard",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", toStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("manager decision commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = toStatus
	if approve {
		l.ManagerApprovalTime = &now
	} else {
		l.DecisionTime = &now
		decidedBy := uuid.MustParse(actorID)
		l.DecidedBy = &decidedBy
	}

	s.sink.Write(ctx, audit.Record{
		Action:       action,
		ResourceType: "leave_request",
		ResourceID:   id,
		ActorID:      actorID,
		Details:      map[string]any{"requester_id": l.RequesterID.String()},
	})

	s.logger.Info("manager decision success",
		zap.String("leave_id", id),
		zap.String("status", toStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.hrDecide(ctx, actorID, id, true)
}

func (s *service) Reject(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.hrDecide(ctx, actorID, id, false)
}

// hrDecide is the final stage. Approval and the balance deduction share one
// transaction so a refused deduction rolls the status change back.
func (s *service) hrDecide(ctx context.Context, actorID, id string, approve bool) (LeaveResponse, error) {
	s.logger.Debug("hr decision requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.Bool("approve", approve),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	role, err := s.directory.GetRole(ctx, actorID)
	if err != nil {
		s.logger.Error("hr decision role lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if role != domain.RoleHRAdmin {
		s.logger.Warn("hr decision by non-hr actor",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
			zap.String("role", role.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrHRRoleRequired
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()
	toStatus := StatusApproved
	action := "approve"
	if !approve {
		toStatus = StatusDeclined
		action = "reject"
	}
	fields := TransitionFields{DecisionTime: &now, DecidedBy: &actorID}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("hr decision begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.TransitionStatus(ctx, id, StatusPending, toStatus, fields)
	if err != nil {
		s.logger.Error("hr decision persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if rows == 0 {
		s.logger.Warn("hr decision lost transition guard",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", toStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	requesterID := l.RequesterID.String()
	if approve {
		if bucket, ok := typeBuckets[l.LeaveType]; ok {
			if err := s.balances.ApplyUsage(ctx, tx, requesterID, bucket, l.DaySpan()); err != nil {
				s.logger.Warn("hr approval balance deduction failed",
					zap.String("leave_id", id),
					zap.String("bucket", bucket),
					zap.Int("days", l.DaySpan()),
					zap.Error(err),
				)
				return LeaveResponse{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("hr decision commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if approve {
		s.balances.Invalidate(ctx, requesterID)
	}

	l.Status = toStatus
	l.DecisionTime = &now
	decidedBy := uuid.MustParse(actorID)
	l.DecidedBy = &decidedBy

	s.sink.Write(ctx, audit.Record{
		Action:       action,
		ResourceType: "leave_request",
		ResourceID:   id,
		ActorID:      actorID,
		Details: map[string]any{
			"requester_id": requesterID,
			"leave_type":   l.LeaveType,
			"total_days":   l.DaySpan(),
		},
	})

	s.logger.Info("hr decision success",
		zap.String("leave_id", id),
		zap.String("status", toStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetMine(ctx context.Context, actorID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindByRequester(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetTeam(ctx context.Context, actorID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindPendingManagerByManager(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllPending(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func validateSubmit(actorID string, req CreateLeaveRequest) (uuid.UUID, time.Time, time.Time, error) {
	requesterID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	if _, ok := validTypes[req.LeaveType]; !ok {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if len(strings.TrimSpace(req.Reason)) < 5 {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrReasonTooShort
	}
	return requesterID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		RequesterID: l.RequesterID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		TotalDays:   l.DaySpan(),
		Reason:      l.Reason,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
	if l.ManagerApprovalTime != nil {
		v := l.ManagerApprovalTime.Format(time.RFC3339)
		resp.ManagerApprovalTime = &v
	}
	if l.DecisionTime != nil {
		v := l.DecisionTime.Format(time.RFC3339)
		resp.DecisionTime = &v
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
