package vizserver

import (
	"net/http"
	"os"

	"log"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Allegro-Leon-Li/SimulatorCore/events"
	apphandler "github.com/Allegro-Leon-Li/SimulatorCore/vizserver/handler"
)

// VizService streams simulation frames to websocket watchers. It is part
// of the surrounding application, not of the robot core: it only consumes
// the frame events the simulation publishes on the registry.
type VizService struct {
	addr     string
	registry *events.Registry
}

func NewVizService(addr string, registry *events.Registry) *VizService {
	return &VizService{
		addr:     addr,
		registry: registry,
	}
}

func (viz *VizService) ListenAndServe() error {
	logger := os.Stdout
	router := mux.NewRouter()

	router.Handle("/", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(apphandler.Home()),
	)).Methods("GET")

	router.Handle("/ws", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(apphandler.Websocket(viz.registry)),
	)).Methods("GET")

	log.Println("VIZ Listening on " + viz.addr)

	return http.ListenAndServe(viz.addr, router)
}
