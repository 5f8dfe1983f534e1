package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// ============================================================================
// Success
// ============================================================================

// OK represents a successful operation.
var OK = Register(&Errno{
	Code:      0,
	HTTP:      http.StatusOK,
	GRPCCode:  codes.OK,
	MessageEN: "Success",
	MessageZH: "成功",
})

// ============================================================================
// Request Errors (Category: 01)
// ============================================================================

var (
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryRequest, 0),
		HTTP:      http.StatusBadRequest,
		GRPCCode:  codes.InvalidArgument,
		MessageEN: "Bad request",
		MessageZH: "请求错误",
	})

	// ErrInvalidParam indicates an invalid parameter.
	ErrInvalidParam = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryRequest, 1),
		HTTP:      http.StatusBadRequest,
		GRPCCode:  codes.InvalidArgument,
		MessageEN: "Invalid parameter",
		MessageZH: "参数无效",
	})

	// ErrInvalidDocument indicates that a caller supplied something other
	// than a document (mapping) where one is required, for example a plain
	// string passed as an insert payload or an update specification.
	ErrInvalidDocument = Register(&Errno{
		Code:      MakeCode(ServiceStorage, CategoryRequest, 0),
		HTTP:      http.StatusBadRequest,
		GRPCCode:  codes.InvalidArgument,
		MessageEN: "Argument must be a document",
		MessageZH: "参数必须是文档类型",
	})
)

// ============================================================================
// Resource Errors (Category: 04)
// ============================================================================

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryResource, 0),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Resource not found",
		MessageZH: "资源不存在",
	})

	// ErrDocumentNotFound indicates that no document matched the query.
	ErrDocumentNotFound = Register(&Errno{
		Code:      MakeCode(ServiceStorage, CategoryResource, 0),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Document not found",
		MessageZH: "文档不存在",
	})
)

// ============================================================================
// Internal Errors (Category: 07, 08, 11)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal error.
	ErrInternal = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryInternal, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Internal server error",
		MessageZH: "服务器内部错误",
	})

	// ErrDatabase indicates a database operation failure.
	ErrDatabase = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryDatabase, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Database error",
		MessageZH: "数据库错误",
	})

	// ErrTimeout indicates an operation exceeded its deadline.
	ErrTimeout = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryTimeout, 0),
		HTTP:      http.StatusGatewayTimeout,
		GRPCCode:  codes.DeadlineExceeded,
		MessageEN: "Operation timed out",
		MessageZH: "操作超时",
	})
)
