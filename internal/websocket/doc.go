// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Package websocket is the connection registry for real-time clients.

It uses gorilla/websocket with the hub and client pattern:

  - Hub: the registry. Admit, BindIdentity, Remove and Broadcast are safe for
    concurrent use. Broadcast works on a snapshot of the members taken under a
    read lock and isolates failures per recipient.
  - Client: one connection with a read pump and a write pump. Outbound frames
    go through a bounded queue; a full queue gets the client evicted.

Each client's inbound frames are decoded with package alert. Ping frames are
answered with pong and malformed frames with a location-rejected frame; the
rest are handed, in order, to the FrameHandler (the ingestion engine).

Usage:

	hub := websocket.NewHub()
	client := websocket.NewClient(hub, conn, engine, websocket.ClientOptions{
	    Identity:   claims.TouristID(),
	    SendBuffer: cfg.Realtime.SendBuffer,
	})
	if err := hub.Admit(client); err != nil {
	    conn.Close()
	    return
	}
	client.Start(context.WithoutCancel(r.Context()))

The hub itself runs under the supervisor through RunWithContext, which closes
every client on shutdown.
*/
package websocket
