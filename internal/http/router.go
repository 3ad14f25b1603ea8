package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/messaging"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/telemetry"
)

// SetupRouter initializes all routes of the screen host
func SetupRouter(host *Host, metrics *telemetry.Metrics, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware(messaging.ServiceName))
	r.Use(MetricsMiddleware(metrics))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"` + messaging.ServiceName + `"}`))
	}).Methods("GET")

	// Summary screen
	r.HandleFunc("/record", host.GetRecord).Methods("GET")
	r.HandleFunc("/record/refresh", host.Refresh).Methods("POST")

	// Edit screen; fixed paths are registered before /edit/{section}
	r.HandleFunc("/edit", host.GetEditor).Methods("GET")
	r.HandleFunc("/edit", host.Mutate).Methods("PATCH")
	r.HandleFunc("/edit/picker", host.Picker).Methods("POST")
	r.HandleFunc("/edit/save", host.Save).Methods("POST")
	r.HandleFunc("/edit/cancel", host.Cancel).Methods("POST")
	r.HandleFunc("/edit/{section}", host.OpenEditor).Methods("POST")

	return CORSMiddleware(allowedOrigins)(r)
}
