package main

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	WSURL     = "ws://localhost:3001/ws"
	PairCount = 200 // Conversations; each one opens two connections.
	MsgCount  = 20  // Messages per participant.
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func main() {
	log.Printf("starting load test: %d pairs, %d messages each", PairCount, MsgCount)
	var wg sync.WaitGroup

	for i := 0; i < PairCount; i++ {
		wg.Add(1)
		go func(pairID int) {
			defer wg.Done()
			runPair(pairID)
		}(i)
	}

	wg.Wait()
	log.Println("load test complete")
}

func runPair(pairID int) {
	userA := fmt.Sprintf("u_%d_a", pairID)
	userB := fmt.Sprintf("u_%d_b", pairID)

	var wsWg sync.WaitGroup
	wsWg.Add(2)
	go chat(&wsWg, userA, userB)
	go chat(&wsWg, userB, userA)
	wsWg.Wait()
}

func chat(wg *sync.WaitGroup, self, other string) {
	defer wg.Done()

	conn, _, err := websocket.DefaultDialer.Dial(WSURL, nil)
	if err != nil {
		log.Printf("connect failed [%s]: %v", self, err)
		return
	}
	defer conn.Close()

	// Drain server broadcasts so the send buffer never fills.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := send(conn, "join-chat", map[string]string{
		"currentUserId": self,
		"otherUserId":   other,
	}); err != nil {
		log.Printf("join failed [%s]: %v", self, err)
		return
	}

	for i := 0; i < MsgCount; i++ {
		if err := send(conn, "typing", map[string]any{
			"userId":      self,
			"otherUserId": other,
			"isTyping":    true,
		}); err != nil {
			log.Printf("typing failed [%s]: %v", self, err)
			return
		}

		if err := send(conn, "message", map[string]any{
			"id":         fmt.Sprintf("%s-%d", self, i),
			"text":       fmt.Sprintf("load test message %d from %s", i, self),
			"senderId":   self,
			"receiverId": other,
		}); err != nil {
			log.Printf("send failed [%s]: %v", self, err)
			return
		}

		// Small sleep to simulate a real typing cadence.
		time.Sleep(10 * time.Millisecond)
	}
	log.Printf("%s finished sending %d messages", self, MsgCount)
}

func send(conn *websocket.Conn, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return conn.WriteJSON(envelope{Event: event, Data: raw})
}
