package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

type AnyEvent map[string]any

func main() {
	addr := flag.String("addr", "ws://127.0.0.1:8080/ws", "websocket task event endpoint")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	flag.Parse()

	for {
		if err := run(*addr, *pretty); err != nil {
			log.Printf("[task-watch] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, pretty bool) error {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[task-watch] connected to %s", addr)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if !pretty {
			fmt.Println(string(msg))
			continue
		}

		var obj AnyEvent
		if err := json.Unmarshal(msg, &obj); err != nil {
			// not JSON? print raw
			fmt.Println(string(msg))
			continue
		}

		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
}
