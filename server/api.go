package server

import (
	"net/http"
	"time"

	"github.com/cyclopcam/www"
	"github.com/go-chi/httprate"
	"github.com/julienschmidt/httprouter"
)

// Reported by /health, and used by Label Studio to identify the backend
const ModelClass = "AssistedBoundingBox"

const maxRequestBytes = 16 * 1024 * 1024

func (s *Server) setupHttpRoutes() {
	router := httprouter.New()

	handle := func(method, route string, handle httprouter.Handle) {
		www.Handle(s.Log, router, method, route, handle)
	}

	ratelimited := func(method, route string, handle httprouter.Handle, requestLimit int, windowLength time.Duration) {
		limited := httprate.Limit(requestLimit, windowLength, httprate.WithKeyFuncs(httprate.KeyByIP))
		www.Handle(s.Log, router, method, route, func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
			limited(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handle(w, r, params)
			})).ServeHTTP(w, r)
		})
	}

	handle("GET", "/", s.httpHealth)
	handle("GET", "/health", s.httpHealth)
	handle("POST", "/setup", s.httpSetup)
	handle("POST", "/versions", s.httpVersions)
	ratelimited("POST", "/predict", s.httpPredict, s.Config.PredictRateLimit, time.Minute)

	s.httpRouter = router
}

func (s *Server) httpHealth(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	type healthJSON struct {
		Status     string `json:"status"`
		ModelClass string `json:"model_class"`
	}
	www.SendJSON(w, &healthJSON{
		Status:     "UP",
		ModelClass: ModelClass,
	})
}

func (s *Server) httpSetup(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	type setupJSON struct {
		Project     string `json:"project"`
		Schema      string `json:"schema"`
		Hostname    string `json:"hostname"`
		AccessToken string `json:"access_token"`
	}
	type setupResponseJSON struct {
		ModelVersion string `json:"model_version"`
	}
	req := setupJSON{}
	www.ReadJSON(w, r, &req, maxRequestBytes)
	s.Log.Infof("Setup for project '%v' from %v", req.Project, req.Hostname)
	www.SendJSON(w, &setupResponseJSON{
		ModelVersion: s.Config.ModelVersion,
	})
}

func (s *Server) httpVersions(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	type versionsJSON struct {
		Versions []string `json:"versions"`
	}
	www.SendJSON(w, &versionsJSON{
		Versions: []string{s.Config.ModelVersion},
	})
}

// A Label Studio task. We only look at data.video_url.
type taskJSON struct {
	ID   int64 `json:"id"`
	Data struct {
		VideoURL string `json:"video_url"`
	} `json:"data"`
}

// httpPredict returns one element in 'results' per task.
// If prediction fails for a task, its element is an empty list, so that one bad
// video does not fail the whole request.
func (s *Server) httpPredict(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	type predictJSON struct {
		Tasks []taskJSON `json:"tasks"`
	}
	type predictResponseJSON struct {
		Results []any `json:"results"`
	}
	req := predictJSON{}
	www.ReadJSON(w, r, &req, maxRequestBytes)
	if len(req.Tasks) == 0 {
		www.PanicBadRequestf("No tasks")
	}
	for _, task := range req.Tasks {
		if task.Data.VideoURL == "" {
			www.PanicBadRequestf("Task %v has no video_url", task.ID)
		}
	}

	resp := predictResponseJSON{
		Results: []any{},
	}
	for _, task := range req.Tasks {
		result, err := s.predictor.Predict(r.Context(), task.Data.VideoURL)
		if err != nil {
			s.Log.Errorf("Error in running tracker on task %v (%v): %v", task.ID, task.Data.VideoURL, err)
			resp.Results = append(resp.Results, []any{})
		} else {
			resp.Results = append(resp.Results, result)
		}
	}
	www.SendJSON(w, &resp)
}
