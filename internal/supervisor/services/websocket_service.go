// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package services

import (
	"context"
)

// ConnectionRegistry is satisfied by *websocket.Hub.
type ConnectionRegistry interface {
	RunWithContext(ctx context.Context) error
}

// RegistryService keeps the real-time connection registry open for the life
// of the process. On cancellation the registry closes every connection.
type RegistryService struct {
	registry ConnectionRegistry
}

// NewRegistryService wraps registry.
func NewRegistryService(registry ConnectionRegistry) *RegistryService {
	return &RegistryService{registry: registry}
}

// Serve implements suture.Service.
func (s *RegistryService) Serve(ctx context.Context) error {
	return s.registry.RunWithContext(ctx)
}

func (s *RegistryService) String() string {
	return "websocket-registry"
}
