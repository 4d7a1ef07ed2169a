package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/floorcast/floorcast-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws?channel=leaderboard", "WebSocket address")
	token := flag.String("token", "", "identity token (optional; mint one with `floorcast token`)")
	kind := flag.String("kind", "tv-display", "room kind to join")
	id := flag.String("id", "", "room identifier")
	timeout := flag.Duration("timeout", 30*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", typ, err)
		}
		return nil
	}

	if *token != "" {
		if err := send(proto.InboundTypeHello, proto.HelloData{Token: *token}); err != nil {
			return err
		}
	}
	if err := send(proto.InboundTypeJoin, proto.JoinData{Kind: *kind, ID: *id}); err != nil {
		return err
	}

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		switch outbound.Type {
		case proto.OutboundTypeAck:
			fmt.Printf("ack: verb=%s room=%s\n", outbound.Verb, outbound.Room)
		case proto.OutboundTypeError:
			fmt.Printf("error: code=%s msg=%s\n", outbound.Error.Code, outbound.Error.Msg)
		case proto.OutboundTypeEvent:
			raw, _ := json.Marshal(outbound.Data)
			fmt.Printf("event: %s %s\n", outbound.Event, string(raw))
		}
	}
}
