package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// envelope mirrors the server's wire frame.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func send(c *websocket.Conn, msgType string, payload interface{}) error {
	env := envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Data = data
	}
	return c.WriteJSON(env)
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	roomCode := flag.String("room", "", "room code to join")
	playerID := flag.String("id", "player-1", "stable player id")
	name := flag.String("name", "tester", "display name")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV (%s): %s", env.Type, string(env.Data))
		}
	}()

	if *roomCode != "" {
		log.Printf("Joining room %s...", *roomCode)
		join := map[string]string{"roomCode": *roomCode, "playerId": *playerID, "name": *name}
		if err := send(c, "join-room", join); err != nil {
			log.Fatalf("Write error: %v", err)
		}
	}

	log.Println("Client started. Commands: start <mode>, vote <targetId>, order, voting, reveal, newround, reset, raw <type> <json>")

	// Write loop
	lines := make(chan string)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		for {
			text, err := reader.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimSpace(text)
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case text, ok := <-lines:
			if !ok {
				return
			}
			if err := handleCommand(c, text); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}

func handleCommand(c *websocket.Conn, text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "start":
		mode := "word"
		if len(fields) > 1 {
			mode = fields[1]
		}
		return send(c, "start-game", map[string]interface{}{"mode": mode, "config": map[string]interface{}{}})
	case "vote":
		if len(fields) < 2 {
			log.Println("Usage: vote <targetId>")
			return nil
		}
		return send(c, "submit-vote", map[string]string{"targetId": fields[1]})
	case "order":
		return send(c, "trigger-speaking-order", nil)
	case "voting":
		return send(c, "start-voting", nil)
	case "reveal":
		return send(c, "reveal-impostor", nil)
	case "newround":
		return send(c, "new-round", nil)
	case "reset":
		return send(c, "reset", nil)
	case "raw":
		if len(fields) < 2 {
			log.Println("Usage: raw <type> [json]")
			return nil
		}
		env := envelope{Type: fields[1]}
		if len(fields) > 2 {
			env.Data = json.RawMessage(strings.Join(fields[2:], " "))
		}
		return c.WriteJSON(env)
	default:
		log.Printf("Unknown command %q", fields[0])
		return nil
	}
}
