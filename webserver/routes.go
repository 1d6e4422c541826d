package webserver

func (web *WebServer) routes() {
	web.router.HandleFunc("/api/v1.0/orientation", web.orientationHdlr)
	web.router.HandleFunc("/api/v1.0/bands", web.bandsHdlr)
	web.router.HandleFunc("/api/v1.0/volume", web.volumeHdlr)
	web.router.HandleFunc("/ws", web.webSocketHdlr)
}
