package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// OK represents a successful operation.
var OK = Register(&Errno{
	Code:      0,
	HTTP:      http.StatusOK,
	GRPCCode:  codes.OK,
	MessageEN: "Success",
	MessageZH: "成功",
})

// Request errors (400).
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

	// ErrMissingParam indicates a missing required parameter.
	ErrMissingParam = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryRequest, 2),
		HTTP:      http.StatusBadRequest,
		GRPCCode:  codes.InvalidArgument,
		MessageEN: "Missing required parameter",
		MessageZH: "缺少必需参数",
	})

	// ErrNoSources indicates an ingest request without any usable source.
	ErrNoSources = Register(&Errno{
		Code:      MakeCode(ServiceNotebook, CategoryRequest, 0),
		HTTP:      http.StatusBadRequest,
		GRPCCode:  codes.InvalidArgument,
		MessageEN: "No sources provided",
		MessageZH: "未提供任何数据源",
	})
)

// Internal errors (500).
var (
	// ErrInternal indicates an unexpected internal error.
	ErrInternal = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryInternal, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Internal server error",
		MessageZH: "内部服务器错误",
	})

	// ErrStore indicates a vector store operation failed.
	ErrStore = Register(&Errno{
		Code:      MakeCode(ServiceNotebook, CategoryStore, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Vector store operation failed",
		MessageZH: "向量存储操作失败",
	})

	// ErrCache indicates a cache operation failed.
	ErrCache = Register(&Errno{
		Code:      MakeCode(ServiceNotebook, CategoryCache, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Cache operation failed",
		MessageZH: "缓存操作失败",
	})

	// ErrExtraction indicates source content extraction failed.
	ErrExtraction = Register(&Errno{
		Code:      MakeCode(ServiceNotebook, CategoryExtraction, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Content extraction failed",
		MessageZH: "内容提取失败",
	})

	// ErrEmbedding indicates the embedding provider call failed.
	ErrEmbedding = Register(&Errno{
		Code:      MakeCode(ServiceNotebook, CategoryEmbedding, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Embedding generation failed",
		MessageZH: "向量嵌入生成失败",
	})

	// ErrGeneration indicates the chat provider call failed.
	ErrGeneration = Register(&Errno{
		Code:      MakeCode(ServiceNotebook, CategoryGeneration, 0),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "Answer generation failed",
		MessageZH: "答案生成失败",
	})
)
