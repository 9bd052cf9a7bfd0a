package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skirmish-sim/skirmish/sim"
	"github.com/skirmish-sim/skirmish/sim/calibration"
)

const maxRequestBytes = 1 << 20

var serveAddr string

// serveCmd exposes simulation and calibration over HTTP and websockets
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSettings(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           newServer(s).routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		logrus.Infof("Listening on %s", serveAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
	},
}

type simulateRequest struct {
	Map    string `json:"map"`
	PowerA *int   `json:"power_a,omitempty"`
	PowerB *int   `json:"power_b,omitempty"`
}

type calibrateRequest struct {
	Map        string `json:"map"`
	LowerBound *int   `json:"lower_bound,omitempty"`
	Accept     string `json:"accept,omitempty"`
}

type calibrateResponse struct {
	calibration.Result
	Error string `json:"error,omitempty"`
}

// wsFrame is one websocket message: a finished round, the outcome, or an error.
type wsFrame struct {
	Type       string          `json:"type"`
	RunID      string          `json:"run_id,omitempty"`
	Round      int             `json:"round,omitempty"`
	Complete   bool            `json:"complete,omitempty"`
	Map        string          `json:"map,omitempty"`
	Combatants []sim.Combatant `json:"combatants,omitempty"`
	Outcome    *sim.Outcome    `json:"outcome,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type server struct {
	defaults settings
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func newServer(s settings) *server {
	return &server{
		defaults: s,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:      logrus.WithField("component", "serve"),
	}
}

func (srv *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	// Flat routes so a method mismatch answers 405 rather than 404
	r.HandleFunc("/api/simulate", srv.handleSimulate).Methods(http.MethodPost)
	r.HandleFunc("/api/calibrate", srv.handleCalibrate).Methods(http.MethodPost)
	r.HandleFunc("/ws/simulate", srv.handleSimulateWS).Methods(http.MethodGet)
	return r
}

// arena parses req.Map with the server defaults and any per-request powers.
func (srv *server) arena(req simulateRequest) (*sim.Arena, error) {
	cfg := srv.defaults.Arena
	if req.PowerA != nil {
		cfg.A.AttackPower = *req.PowerA
	}
	if req.PowerB != nil {
		cfg.B.AttackPower = *req.PowerB
	}
	return sim.ParseArena(strings.NewReader(req.Map), cfg)
}

func (srv *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	arena, err := srv.arena(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := sim.Simulate(arena, srv.defaults.Engine)
	if err != nil {
		srv.log.Errorf("Simulation failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (srv *server) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	var req calibrateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	arena, err := srv.arena(simulateRequest{Map: req.Map})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg := srv.defaults.Calibration
	if req.LowerBound != nil {
		cfg.LowerBound = *req.LowerBound
	}
	if req.Accept != "" {
		cfg.Accept = req.Accept
	}
	searcher, err := calibration.NewSearcher(arena, cfg, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := searcher.Search()
	var monotonicity *calibration.MonotonicityError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, calibrateResponse{Result: res})
	case errors.As(err, &monotonicity):
		writeJSON(w, http.StatusOK, calibrateResponse{Result: res, Error: err.Error()})
	case errors.Is(err, calibration.ErrNoQualifyingPower):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		srv.log.Errorf("Calibration failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleSimulateWS reads one simulate request and streams a frame per round,
// then the outcome.
func (srv *server) handleSimulateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.log.Warnf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxRequestBytes)

	var req simulateRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(wsFrame{Type: "error", Error: "invalid JSON"})
		return
	}
	arena, err := srv.arena(req)
	if err != nil {
		_ = conn.WriteJSON(wsFrame{Type: "error", Error: err.Error()})
		return
	}
	simulator, err := sim.NewSimulator(arena, srv.defaults.Engine)
	if err != nil {
		_ = conn.WriteJSON(wsFrame{Type: "error", Error: err.Error()})
		return
	}

	var writeErr error
	simulator.OnRound = func(s *sim.Simulator, round int, complete bool) {
		if writeErr != nil {
			return
		}
		living := s.State.Living()
		combatants := make([]sim.Combatant, len(living))
		for i, c := range living {
			combatants[i] = *c
		}
		writeErr = conn.WriteJSON(wsFrame{
			Type:       "round",
			RunID:      s.ID,
			Round:      round,
			Complete:   complete,
			Map:        s.State.Render(),
			Combatants: combatants,
		})
	}

	for {
		done, err := simulator.Step()
		if err != nil {
			_ = conn.WriteJSON(wsFrame{Type: "error", RunID: simulator.ID, Error: err.Error()})
			return
		}
		if writeErr != nil {
			srv.log.Debugf("Client went away during run %s: %v", simulator.ID, writeErr)
			return
		}
		if done {
			break
		}
	}
	out, err := simulator.Outcome()
	if err != nil {
		_ = conn.WriteJSON(wsFrame{Type: "error", RunID: simulator.ID, Error: err.Error()})
		return
	}
	_ = conn.WriteJSON(wsFrame{Type: "outcome", RunID: simulator.ID, Outcome: &out})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
