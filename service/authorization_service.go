package service

import (
	"context"

	"github.com/Netcracker/qubership-roadmap-service/secctx"
)

type AuthorizationService interface {
	IsAdmin(ctx context.Context) bool
	CanReadRoadmap(ctx context.Context, ownerId string, isPublic bool) bool
	CanModifyRoadmap(ctx context.Context, ownerId string) bool
}

func NewAuthorizationService() AuthorizationService {
	return &authorizationServiceImpl{}
}

type authorizationServiceImpl struct {
}

func (a authorizationServiceImpl) IsAdmin(ctx context.Context) bool {
	return secctx.IsAdmin(ctx)
}

func (a authorizationServiceImpl) CanReadRoadmap(ctx context.Context, ownerId string, isPublic bool) bool {
	return isPublic || a.CanModifyRoadmap(ctx, ownerId)
}

func (a authorizationServiceImpl) CanModifyRoadmap(ctx context.Context, ownerId string) bool {
	if secctx.IsSystem(ctx) {
		return true
	}
	userId := secctx.GetUserId(ctx)
	return userId != "" && userId == ownerId
}
