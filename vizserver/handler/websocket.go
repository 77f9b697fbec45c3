package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Allegro-Leon-Li/SimulatorCore/events"
	"github.com/Allegro-Leon-Li/SimulatorCore/simulation"
)

type wsincomingmessage struct {
	messageType int
	p           []byte
	err         error
}

func Home() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"simulator-viz","stream":"/ws"}`))
	}
}

func Websocket(registry *events.Registry) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Print("upgrade:", err)
			return
		}

		defer func(c *websocket.Conn) {
			c.Close()
			log.Println("Closing watcher connection")
		}(c)

		clientclosedsocket := make(chan bool)
		c.SetCloseHandler(func(code int, text string) error {
			clientclosedsocket <- true
			return nil
		})

		// Consume incoming messages to keep close detection working.
		incomingmsg := make(chan wsincomingmessage)
		go func(c *websocket.Conn, ch chan wsincomingmessage) {
			for {
				messageType, p, err := c.ReadMessage()
				ch <- wsincomingmessage{messageType, p, err}
				if err != nil {
					return
				}
			}
		}(c, incomingmsg)

		framechan := make(chan interface{})
		registry.Subscribe(simulation.EventFrame, framechan)
		defer registry.Unsubscribe(simulation.EventFrame, framechan)

		for {
			select {
			case <-incomingmsg:
				// discard; the viz stream is one-way
			case <-clientclosedsocket:
				log.Println("Watcher closed the socket")
				return
			case frame := <-framechan:
				data, err := json.Marshal(frame)
				if err != nil {
					continue
				}

				if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}
	}
}
