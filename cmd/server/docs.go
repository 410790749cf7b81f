// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

// @title SafarSafe API
// @version 1.0
// @description Tourist safety backend: account registration, bearer-token login, location history and panic alerts.
// @description
// @description ## Authentication
// @description
// @description Protected endpoints take `Authorization: Bearer <token>`. Obtain a token from `/api/tourist/login`.
// @description `/api/tourist/logout` revokes it before expiry.
// @description
// @description ## Real-time channel
// @description
// @description `GET /ws` upgrades to a WebSocket. Frames are `{"type": <kind>, "data": <payload>}`.
// @description Connections without a token join as observers and receive broadcasts only.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {"error": "Human-readable message", "code": "VALIDATION_ERROR"}
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/safarsafe/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token from /api/tourist/login, sent as "Bearer <token>".
//
// @tag.name Tourist
// @tag.description Registration, login, logout and profile
//
// @tag.name Alerts
// @tag.description Panic alerts and their recorded history
//
// @tag.name Tracking
// @tag.description Location history
//
// @tag.name Realtime
// @tag.description WebSocket channel for location updates and alert broadcasts
//
// @tag.name Core
// @tag.description Health probes
package main
