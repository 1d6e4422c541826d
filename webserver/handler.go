package webserver

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dh1tw/spatialAudio/audio/nodes/bandfilter"
	"github.com/dh1tw/spatialAudio/events"
)

// OrientationMsg is the JSON representation of a listener orientation.
// Pointer fields distinguish absent values from zero values.
type OrientationMsg struct {
	Direction *[3]float32 `json:"direction,omitempty"`
	Gain      *float32    `json:"gain,omitempty"`
}

// BandGainsMsg is the JSON representation of the filter bank gains.
type BandGainsMsg struct {
	BandGains []float32 `json:"bandGains,omitempty"`
}

// AudioControlVolume is the JSON message for getting / setting the
// playback volume (0...100).
type AudioControlVolume struct {
	Volume *int `json:"volume,omitempty"`
}

func (web *WebServer) webSocketHdlr(w http.ResponseWriter, req *http.Request) {

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		http.NotFound(w, req)
		log.Printf("unable to open ws for %v\n", req.RemoteAddr)
		return
	}

	client := &wsClient{
		ws:           conn,
		send:         make(chan []byte),
		removeClient: web.removeWsClient,
	}

	go client.write()
	go client.read()

	web.addWsClient <- client
}

func (web *WebServer) orientationHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		pos := web.ctrl.Orientation()
		dir := [3]float32(pos.Direction)
		gain := pos.Gain
		msg := &OrientationMsg{
			Direction: &dir,
			Gain:      &gain,
		}
		if err := json.NewEncoder(w).Encode(msg); err != nil {
			log.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("500 - unable to encode OrientationMsg"))
		}

	case "PUT":
		var msg OrientationMsg
		dec := json.NewDecoder(req.Body)

		if err := dec.Decode(&msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("400 - invalid JSON"))
			return
		}
		if msg.Direction == nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("400 - invalid Request"))
			return
		}
		dir := mgl32.Vec3(*msg.Direction)
		if dir.Len() == 0 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("400 - direction must not be the zero vector"))
			return
		}

		pos := web.ctrl.Orientation()
		pos.Direction = dir
		if msg.Gain != nil {
			pos.Gain = *msg.Gain
		}
		web.ctrl.SetOrientation(pos)
		web.events.Pub(true, events.StateUpdate)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) bandsHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		gains := web.ctrl.BandGains()
		msg := &BandGainsMsg{
			BandGains: gains[:],
		}
		if err := json.NewEncoder(w).Encode(msg); err != nil {
			log.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("500 - unable to encode BandGainsMsg"))
		}

	case "PUT":
		var msg BandGainsMsg
		dec := json.NewDecoder(req.Body)

		if err := dec.Decode(&msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("400 - invalid JSON"))
			return
		}
		if len(msg.BandGains) != bandfilter.NumBands {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("400 - invalid Request"))
			return
		}
		var gains [bandfilter.NumBands]float32
		for i, g := range msg.BandGains {
			if g < 0 {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("400 - band gains must not be negative"))
				return
			}
			gains[i] = g
		}
		web.ctrl.SetBandGains(gains)
		web.events.Pub(true, events.StateUpdate)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) volumeHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		vol := int(web.ctrl.Volume() * 100)
		volCtlMsg := &AudioControlVolume{
			Volume: &vol,
		}
		if err := json.NewEncoder(w).Encode(volCtlMsg); err != nil {
			log.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("500 - unable to encode AudioControlVolume msg"))
		}

	case "PUT":
		var volCtlMsg AudioControlVolume
		dec := json.NewDecoder(req.Body)

		if err := dec.Decode(&volCtlMsg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("400 - invalid JSON"))
			return
		}
		if volCtlMsg.Volume == nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("400 - invalid Request"))
			return
		}
		web.ctrl.SetVolume(float32(*volCtlMsg.Volume) / 100)
		web.events.Pub(true, events.StateUpdate)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
