package handler

import (
	"fmt"
	"time"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

// --- Request → Service input ---

func toOrderInput(req createOrderRequest, fromUser int64) (domain.OrderInput, error) {
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return domain.OrderInput{}, err
	}
	predicted, err := domain.ParseDate(req.PredictedDate)
	if err != nil {
		return domain.OrderInput{}, err
	}

	status := domain.OrderStatus(req.Status)
	if status == "" {
		status = domain.StatusOpen
	}
	if req.FromUser > 0 {
		fromUser = req.FromUser
	}

	return domain.OrderInput{
		Title:         req.Title,
		Description:   req.Description,
		Resolved:      req.Resolved,
		StartDate:     start,
		PredictedDate: predicted,
		Priority:      domain.Priority(req.Priority),
		Status:        status,
		FromUser:      fromUser,
		Responsible:   req.Responsible,
	}, nil
}

func toOrderPatch(req updateOrderRequest) (domain.OrderPatch, error) {
	patch := domain.OrderPatch{
		Title:       req.Title,
		Description: req.Description,
		Resolved:    req.Resolved,
		Responsible: req.Responsible,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.StartDate != nil {
		d, err := domain.ParseDate(*req.StartDate)
		if err != nil {
			return domain.OrderPatch{}, err
		}
		patch.StartDate = &d
	}
	if req.PredictedDate != nil {
		d, err := domain.ParseDate(*req.PredictedDate)
		if err != nil {
			return domain.OrderPatch{}, err
		}
		patch.PredictedDate = &d
	}
	if patch.StartDate != nil && patch.PredictedDate != nil && patch.PredictedDate.Before(patch.StartDate.Time) {
		return domain.OrderPatch{}, fmt.Errorf("%w: predicted_date is before start_date", domain.ErrInvalidOrder)
	}
	return patch, nil
}

func toOrderFilter(q listOrdersQuery) domain.OrderFilter {
	f := domain.OrderFilter{
		Status:      domain.OrderStatus(q.Status),
		Priority:    domain.Priority(q.Priority),
		Responsible: q.Responsible,
		FromUser:    q.FromUser,
		Search:      q.Search,
		Ordering:    q.Ordering,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}
	// Both already passed datetime validation.
	f.StartDateFrom, _ = parseOptionalDate(q.StartDateFrom)
	f.StartDateTo, _ = parseOptionalDate(q.StartDateTo)
	return f
}

func parseOptionalDate(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s)
}

func toStatusChange(req transitionRequest, requestedBy string, now time.Time) ports.StatusChangeInput {
	at, stamped := req.RequestedAt, !req.RequestedAt.IsZero()
	if !stamped {
		at = now
	}
	return ports.StatusChangeInput{
		OrderID:       req.OrderID,
		Status:        req.Status,
		RequestedAt:   at.UTC(),
		RequestedBy:   requestedBy,
		ClientStamped: stamped,
	}
}

func toUserInput(req createUserRequest) domain.UserInput {
	return domain.UserInput{
		Username:        req.Username,
		Password:        req.Password,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		IsStaff:         req.IsStaff,
		IsSuperuser:     req.IsSuperuser,
		Groups:          req.Groups,
		UserPermissions: req.UserPermissions,
	}
}

func toUserPatch(req updateUserRequest) domain.UserPatch {
	return domain.UserPatch{
		Username:        req.Username,
		Password:        req.Password,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		IsStaff:         req.IsStaff,
		IsSuperuser:     req.IsSuperuser,
		IsActive:        req.IsActive,
		Groups:          req.Groups,
		UserPermissions: req.UserPermissions,
	}
}

// --- Service output → Response ---

func toOrderListResponse(page *domain.OrderPage, now time.Time) orderListResponse {
	return orderListResponse{
		Count:    page.Count,
		Next:     page.Next,
		Previous: page.Previous,
		Results:  domain.ViewsOf(page.Results, now),
	}
}

func toSessionResponse(info ports.SessionInfo) sessionResponse {
	resp := sessionResponse{
		User:        info.User,
		Role:        info.User.Role(),
		Initials:    info.User.Initials(),
		Permissions: info.Permissions,
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	if !info.AccessExpiresAt.IsZero() {
		exp := info.AccessExpiresAt.UTC()
		resp.AccessExpiresAt = &exp
	}
	return resp
}
