package handlers

import (
	"context"

	"github.com/gartstein/onboarding/internal/onboarding/auth"
	"github.com/gartstein/onboarding/internal/onboarding/controller"
	"github.com/gartstein/onboarding/internal/onboarding/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// OnboardingController defines the business logic interface
// that the gRPC/HTTP handlers will invoke.
type OnboardingController interface {
	SubmitOnboardingRequest(ctx context.Context, in *models.OnboardingRequestInput) (*models.OnboardingRequest, error)
	ListOnboardingRequests(ctx context.Context) ([]*models.OnboardingRequest, error)
	GetOnboardingRequest(ctx context.Context, id uuid.UUID) (*models.OnboardingRequest, bool, error)
	ApproveOnboardingRequest(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
}

// OnboardingHandler implements OnboardingServiceServer on top of an
// OnboardingController.
type OnboardingHandler struct {
	service OnboardingController
	logger  *zap.Logger
}

var _ OnboardingServiceServer = (*OnboardingHandler)(nil)

// NewOnboardingHandler constructs a new OnboardingHandler with the given service and logger.
func NewOnboardingHandler(service OnboardingController, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		service: service,
		logger:  logger.Named("grpc_handler"),
	}
}

// SubmitOnboardingRequest stores a new request and returns the result body.
func (h *OnboardingHandler) SubmitOnboardingRequest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	_, err := h.service.SubmitOnboardingRequest(ctx, structToInput(req))
	result := controller.SubmitResult(err)
	if err != nil {
		return nil, h.resultError(err, result)
	}
	return h.resultStruct(result)
}

// ListOnboardingRequests returns {"requests": [...]}, newest first.
func (h *OnboardingHandler) ListOnboardingRequests(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	reqs, err := h.service.ListOnboardingRequests(ctx)
	if err != nil {
		return nil, h.statusError(err, "failed to list onboarding requests")
	}
	out, err := requestsToStruct(reqs)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode requests: %v", err)
	}
	return out, nil
}

// GetOnboardingRequest fetches one request by id.
func (h *OnboardingHandler) GetOnboardingRequest(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := parseRequestID(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	found, ok, err := h.service.GetOnboardingRequest(ctx, id)
	if err != nil {
		return nil, h.statusError(err, "failed to fetch onboarding request")
	}
	if !ok {
		return nil, status.Errorf(codes.NotFound, "onboarding request %s not found", id)
	}
	out, err := requestToStruct(found)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode request: %v", err)
	}
	return out, nil
}

// ApproveOnboardingRequest enrolls a request and returns the result body.
func (h *OnboardingHandler) ApproveOnboardingRequest(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := parseRequestID(req.GetValue())
	if err == nil {
		_, err = h.service.ApproveOnboardingRequest(ctx, id)
	}
	result := controller.ApproveResult(err)
	if err != nil {
		return nil, h.resultError(err, result)
	}

	approver, _ := auth.SubjectFromContext(ctx)
	h.logger.Info("Onboarding request approved over gRPC",
		zap.String("request_id", id.String()),
		zap.String("approved_by", approver),
	)
	return h.resultStruct(result)
}

func (h *OnboardingHandler) resultStruct(result models.Result) (*structpb.Struct, error) {
	out, err := resultToStruct(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}

// statusError maps domain or repository errors to appropriate gRPC status codes.
func (h *OnboardingHandler) statusError(err error, message string) error {
	code := grpcCode(err)
	if code == codes.Internal {
		h.logger.Error("Internal server error", zap.Error(err))
	}
	return status.Error(code, message)
}

// resultError is statusError carrying the failed Result body as a status
// detail, so gRPC clients see the same {success, error} pair as HTTP ones.
func (h *OnboardingHandler) resultError(err error, result models.Result) error {
	code := grpcCode(err)
	if code == codes.Internal {
		h.logger.Error("Internal server error", zap.Error(err))
	}
	st := status.New(code, result.Error)
	body, encErr := resultToStruct(result)
	if encErr != nil {
		return st.Err()
	}
	withBody, detailErr := st.WithDetails(body)
	if detailErr != nil {
		return st.Err()
	}
	return withBody.Err()
}
