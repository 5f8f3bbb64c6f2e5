package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerScheduleRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /v1/weeks/drawable", handler.ListDrawableWeeks)
	mux.HandleFunc("GET /v1/history", handler.GetHistory)
	mux.HandleFunc("GET /v1/history/export", handler.ExportHistoryCSV)
	mux.Handle("POST /v1/weeks/{weekID}/draw", RequireAdminToken(adminToken, http.HandlerFunc(handler.DrawWeek)))
	mux.Handle("PUT /v1/weeks/{weekID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.EditWeek)))
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /v1/members", handler.ListMembers)
	mux.HandleFunc("GET /v1/members/eligible", handler.ListEligibleMembers)
	mux.Handle("POST /v1/members/import", RequireAdminToken(adminToken, http.HandlerFunc(handler.ImportRoster)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/admin/reset", RequireAdminToken(adminToken, http.HandlerFunc(handler.ResetSchedule)))
	mux.Handle("POST /v1/internal/jobs/reconcile-service-dates", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunReconcileServiceDates)))
}
