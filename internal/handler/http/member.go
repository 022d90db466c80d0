package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/civicgrants/portal-backend-go/internal/domain/contractor"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/middleware"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MemberHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	JoinRequests(w http.ResponseWriter, r *http.Request)
}

type MemberHandlerImpl struct {
	memberService      user.MemberService
	joinRequestService contractor.JoinRequestService
}

func NewMemberHandler(memberService user.MemberService, joinRequestService contractor.JoinRequestService) MemberHandler {
	return &MemberHandlerImpl{
		memberService:      memberService,
		joinRequestService: joinRequestService,
	}
}

// List implements MemberHandler.
func (h *MemberHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	members, err := h.memberService.ListMembers(r.Context(), current)
	if err != nil {
		slog.Error("Member list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, members)
}

// Update implements MemberHandler: permission level change, deactivation, or
// removal from the company.
func (h *MemberHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	memberID := chi.URLParam(r, "id")
	if memberID == "" {
		response.BadRequest(w, "member id is required", nil)
		return
	}

	var updateReq user.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Member update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.memberService.UpdateMember(r.Context(), current, memberID, updateReq)
	if err != nil {
		slog.Error("Member update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Member updated", updated)
}

// JoinRequests implements MemberHandler: the contractor company's join
// requests, visible to whoever manages its team.
func (h *MemberHandlerImpl) JoinRequests(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	requests, err := h.joinRequestService.ListForCompany(r.Context(), current)
	if err != nil {
		slog.Error("Join request list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}
