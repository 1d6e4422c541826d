// Package webserver exposes the rendering chain over HTTP: a small
// JSON API for orientation, band gains and volume, plus a websocket
// through which connected clients are kept in sync with the current
// application state.
package webserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sync"

	"github.com/cskr/pubsub"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/dh1tw/spatialAudio/audio/nodes/bandfilter"
	"github.com/dh1tw/spatialAudio/audio/orientation"
	"github.com/dh1tw/spatialAudio/events"
)

var upgrader = websocket.Upgrader{}

// Controller is the interface the webserver talks to. It is implemented
// by chain.Chain.
type Controller interface {
	SetOrientation(orientation.Position)
	Orientation() orientation.Position
	SetBandGains([bandfilter.NumBands]float32)
	BandGains() [bandfilter.NumBands]float32
	SetVolume(float32)
	Volume() float32
}

// WebServer is the webserver serving the JSON API and the websocket.
type WebServer struct {
	url        string
	port       int
	apiVersion string
	apiMatch   *regexp.Regexp
	router     *mux.Router
	ctrl       Controller
	events     *pubsub.PubSub

	muWsClients    sync.Mutex
	wsClients      map[*wsClient]bool
	addWsClient    chan *wsClient
	removeWsClient chan *wsClient
}

// AppState is the state snapshot pushed to the websocket clients.
type AppState struct {
	Orientation *OrientationMsg `json:"orientation,omitempty"`
	BandGains   []float32       `json:"bandGains,omitempty"`
	Volume      *int            `json:"volume,omitempty"`
}

// NewWebServer is the constructor method for a WebServer.
func NewWebServer(url string, port int, ctrl Controller, evPS *pubsub.PubSub) (*WebServer, error) {

	if ctrl == nil {
		return nil, fmt.Errorf("webserver: no controller provided")
	}
	if evPS == nil {
		return nil, fmt.Errorf("webserver: no event pubsub provided")
	}

	web := &WebServer{
		url:            url,
		port:           port,
		apiVersion:     "1.0",
		apiMatch:       regexp.MustCompile(`api\/v\d\.\d\/`),
		router:         mux.NewRouter().StrictSlash(true),
		ctrl:           ctrl,
		events:         evPS,
		wsClients:      make(map[*wsClient]bool),
		addWsClient:    make(chan *wsClient),
		removeWsClient: make(chan *wsClient),
	}

	web.routes()

	return web, nil
}

// Start runs the websocket hub and the http server. It blocks until the
// http server terminates.
func (web *WebServer) Start() error {

	go web.hub()

	serverURL := fmt.Sprintf("%s:%d", web.url, web.port)
	log.Println("webserver listening on", serverURL)

	return http.ListenAndServe(serverURL, web.apiRedirectRouter(web.router))
}

// hub manages the websocket clients and pushes a state snapshot
// whenever the application state changes, regardless of whether the
// change came through the http API or from elsewhere in the app.
func (web *WebServer) hub() {

	stateUpdateCh := web.events.Sub(events.StateUpdate)

	for {
		select {
		case <-stateUpdateCh:
			web.updateWsClients()

		case client := <-web.addWsClient:
			log.Println("WebSocket connected")
			web.muWsClients.Lock()
			web.wsClients[client] = true
			web.muWsClients.Unlock()
			web.updateWsClients()

		case client := <-web.removeWsClient:
			log.Println("WebSocket disconnected")
			web.muWsClients.Lock()
			if _, ok := web.wsClients[client]; ok {
				delete(web.wsClients, client)
				close(client.send)
			}
			web.muWsClients.Unlock()
		}
	}
}

// updateWsClients sends the current application state to all connected
// websocket clients.
func (web *WebServer) updateWsClients() {

	data, err := json.Marshal(web.appState())
	if err != nil {
		log.Println(err)
		return
	}

	web.muWsClients.Lock()
	for client := range web.wsClients {
		client.send <- data
	}
	web.muWsClients.Unlock()
}

func (web *WebServer) appState() AppState {

	pos := web.ctrl.Orientation()
	gains := web.ctrl.BandGains()
	vol := int(web.ctrl.Volume() * 100)

	dir := [3]float32(pos.Direction)
	gain := pos.Gain

	return AppState{
		Orientation: &OrientationMsg{
			Direction: &dir,
			Gain:      &gain,
		},
		BandGains: gains[:],
		Volume:    &vol,
	}
}

type wsClient struct {
	ws           *websocket.Conn
	send         chan []byte
	removeClient chan<- *wsClient
}

func (c *wsClient) write() {
	defer c.ws.Close()

	for message := range c.send {
		c.ws.WriteMessage(websocket.TextMessage, message)
	}
	c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *wsClient) read() {
	defer func() {
		c.removeClient <- c
		c.ws.Close()
	}()

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			break
		}
	}
}
