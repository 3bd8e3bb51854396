// Package core holds the employee domain: the application record, its
// persisted row shape, the mapping between them and the data-access
// operations that wrap a remote table.
//
// # Records and rows
//
// [Employee] is what handlers and the CLI build from user input. Every field
// is optional; nil means "not supplied". [EmployeeRow] is what the remote
// table stores. The two differ only in the hire date key ("dataAdmissao"
// versus "dataadmissao") and in the identifier, which [ToPersisted] omits
// when unset and [ToPersistedForUpdate] always strips.
//
// # Data-access operations
//
// [Service] wraps an [EmployeeStore] with five operations. Each returns a
// [Result] envelope instead of an error:
//
//	res := svc.Get(ctx, 7)
//	if !res.Success {
//	    msg := core.MapMessage(res.Error, res.Kind)
//	    ...
//	}
//
// Failures are logged with the request id and counted in the
// employees_store_operations_total metric.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// See error_messages.go for the code reference.
package core
