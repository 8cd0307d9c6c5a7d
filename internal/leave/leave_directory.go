package leave

import (
	"context"

	"dataguard-hris/internal/domain"
)

// Directory is the slice of the staff directory the workflow needs. The
// profile service satisfies it.
//
//go:generate mockgen -source=leave_directory.go -destination=mock/leave_directory_mock.go -package=mock
type Directory interface {
	GetRole(ctx context.Context, userID string) (domain.Role, error)
	GetManagerID(ctx context.Context, userID string) (*string, error)
}
