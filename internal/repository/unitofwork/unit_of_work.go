package unitofwork

import (
	"context"

	"topic-memory-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MemoryLogRepository() contract.MemoryLogRepository
	ContextRepository() contract.ContextRepository
}
