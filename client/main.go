package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// packet 对应服务端的消息信封
type packet struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, event string, payload interface{}) error {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = raw
	}

	frame, err := json.Marshal(packet{Event: event, Data: data})
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, frame)
}

// randomBoard 生成一张 25 格不重复的棋盘，取数 1..75
func randomBoard() []int {
	perm := rand.Perm(75)
	board := make([]int, 25)
	for i := range board {
		board[i] = perm[i] + 1
	}
	return board
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
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
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			var p packet
			if err := json.Unmarshal(message, &p); err != nil {
				log.Printf("<- RECV invalid frame: %s", message)
				continue
			}
			log.Printf("<- RECV %s: %s", p.Event, string(p.Data))
		}
	}()

	fmt.Println(`Commands:
  create <room> <name>   create and join a room
  join <room> <name>     join an existing room
  board                  submit a random 25-cell board
  start                  vote to start the game
  call <number>          call a number on your turn
  say <text>             send a chat message
  restart                vote to reset the room
  quit                   leave`)

	// stdin 读取是阻塞的，单独起一个采集协程
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
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case text, ok := <-lines:
			if !ok {
				return
			}
			if text == "" {
				continue
			}

			fields := strings.Fields(text)
			var err error
			switch fields[0] {
			case "create":
				if len(fields) != 3 {
					fmt.Println("usage: create <room> <name>")
					continue
				}
				err = send(c, "create_room", map[string]string{"room": fields[1], "username": fields[2]})
			case "join":
				if len(fields) != 3 {
					fmt.Println("usage: join <room> <name>")
					continue
				}
				err = send(c, "join_room", map[string]string{"room": fields[1], "username": fields[2]})
			case "board":
				board := randomBoard()
				log.Printf("-> SENT board: %v", board)
				err = send(c, "submit_board", map[string][]int{"board": board})
			case "start":
				err = send(c, "start_game", nil)
			case "call":
				if len(fields) != 2 {
					fmt.Println("usage: call <number>")
					continue
				}
				number, convErr := strconv.Atoi(fields[1])
				if convErr != nil {
					fmt.Println("usage: call <number>")
					continue
				}
				err = send(c, "number_selected", map[string]int{"number": number})
			case "say":
				if len(fields) < 2 {
					fmt.Println("usage: say <text>")
					continue
				}
				err = send(c, "send_message", map[string]string{"message": strings.Join(fields[1:], " ")})
			case "restart":
				err = send(c, "restart_game", nil)
			case "quit":
				c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			default:
				fmt.Println("unknown command:", fields[0])
				continue
			}
			if err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
