package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/logging"
	"github.com/JonMunkholm/employees/internal/store"
)

// Service provides the employee data-access operations.
//
// Every operation returns a Result and never panics: store failures, mapper
// failures and panics in the operation body are all converted to the
// failure case at the operation boundary.
type Service struct {
	store EmployeeStore
}

// NewService creates a Service over the given store.
func NewService(s EmployeeStore) *Service {
	return &Service{store: s}
}

// Create inserts a single employee and returns the rows echoed back by the
// store, which may be empty.
func (s *Service) Create(ctx context.Context, e Employee) Result[[]EmployeeRow] {
	return run(ctx, "create", func() ([]EmployeeRow, error) {
		return s.store.Insert(ctx, []EmployeeRow{ToPersisted(e)})
	})
}

// List returns every employee row as stored.
func (s *Service) List(ctx context.Context) Result[[]EmployeeRow] {
	return run(ctx, "list", func() ([]EmployeeRow, error) {
		return s.store.SelectAll(ctx)
	})
}

// Get returns the employee with the given id. Zero or several matching rows
// fail with a not-found error.
func (s *Service) Get(ctx context.Context, id int64) Result[EmployeeRow] {
	return run(ctx, "get", func() (EmployeeRow, error) {
		return s.store.SelectSingle(ctx, store.Eq(ColumnID, id))
	})
}

// Update writes the fields set on e to the employee with the given id.
// The id in e, if any, is ignored. Matching no row is still success.
func (s *Service) Update(ctx context.Context, id int64, e Employee) Result[[]EmployeeRow] {
	return run(ctx, "update", func() ([]EmployeeRow, error) {
		return s.store.Update(ctx, ToPersistedForUpdate(id, e), store.Eq(ColumnID, id))
	})
}

// Delete removes the employee with the given id. Matching no row is still
// success.
func (s *Service) Delete(ctx context.Context, id int64) Result[[]EmployeeRow] {
	return run(ctx, "delete", func() ([]EmployeeRow, error) {
		return s.store.Delete(ctx, store.Eq(ColumnID, id))
	})
}

// run executes fn and folds its outcome into a Result.
func run[T any](ctx context.Context, op string, fn func() (T, error)) (res Result[T]) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res = Fail[T](apperr.Newf(apperr.Unknown, "%s: %v", op, p))
		}

		outcome := "success"
		if !res.Success {
			outcome = "failure"
			logging.WithFields(ctx,
				"op", op,
				"kind", res.Kind.String(),
				"ip", GetIPAddressFromContext(ctx),
				"user_agent", GetUserAgentFromContext(ctx),
			).Error(fmt.Sprintf("employee %s failed", op), "error", res.Error)
		}
		metricsOperations.WithLabelValues(op, outcome).Inc()
		metricsOperationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	data, err := fn()
	if err != nil {
		return Fail[T](err)
	}
	return Ok(data)
}
